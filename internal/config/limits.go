package config

const (
	// MaxDocumentTitleLength is the maximum length for document titles.
	// Kept short so titles stay usable in list views.
	MaxDocumentTitleLength = 255

	// MaxUserRequestLength is the maximum length of a single chat
	// instruction sent to the assistant.
	MaxUserRequestLength = 4000

	// MaxImportFileSize is the maximum size of an imported text file.
	// Imported files become document bodies held fully in memory.
	MaxImportFileSize = 2 << 20 // 2 MiB

	// MaxLogFiles is the number of timestamped log files retained.
	MaxLogFiles = 10
)
