// Package icon packs one raster image into a multi-resolution ICO container.
//
// Pack decodes a source image, resamples it to every requested square size
// and writes the result through a temporary file that is renamed over the
// destination, so a failed run never replaces a previously valid icon.
// The container stores each entry as an independently decodable PNG payload
// in the order the sizes were requested.
package icon
