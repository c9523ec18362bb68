package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeSourceNotFound  = "SOURCE_NOT_FOUND"
	CodeDecodeError     = "DECODE_ERROR"
	CodeWriteError      = "WRITE_ERROR"
	CodeInvalidSizeList = "INVALID_SIZE_LIST"
	CodeInvalidConfig   = "INVALID_CONFIG"
)

var enUSMessages = map[Code]string{
	CodeSourceNotFound:  "source image not found: {{.Path}}",
	CodeDecodeError:     "source image could not be decoded: {{.Path}}",
	CodeWriteError:      "icon could not be written: {{.Path}}",
	CodeInvalidSizeList: "invalid icon size list{{if .Size}} (entry {{.Size}}){{end}}",
	CodeInvalidConfig:   "invalid configuration{{if .Field}} for {{.Field}}{{end}}",
}
