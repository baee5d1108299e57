package candihelper

const (
	// Version of this library
	Version = "v0.1.0"

	// TimeFormatLogger const
	TimeFormatLogger = "2006/01/02 15:04:05"

	// Byte ...
	Byte uint64 = 1
	// KByte ...
	KByte = Byte * 1024

	// WORKDIR const for workdir environment
	WORKDIR = "WORKDIR"

	// HeaderContentType const
	HeaderContentType = "Content-Type"
	// HeaderAuthorization const
	HeaderAuthorization = "Authorization"
	// HeaderMIMEApplicationJSON const
	HeaderMIMEApplicationJSON = "application/json"
	// HeaderMIMEApplicationForm const
	HeaderMIMEApplicationForm = "application/x-www-form-urlencoded"
)
