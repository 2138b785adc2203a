// internal/i18n/keys.go
package i18n

// Translation keys used across handlers and middleware.
const (
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthSetupDone          = "auth.setup_done"

	KeyContainerNotFound = "container.not_found"
	KeyPhotoNotFound     = "photo.not_found"
	KeyImportNotFound    = "import.not_found"

	KeyImportInProgress = "import.in_progress"
	KeyImportEmptyFile  = "import.empty_file"
	KeyImportNoIDColumn = "import.no_id_column"
	KeyImportFailed     = "import.failed"

	KeyValidationInvalid = "validation.invalid"
	KeyInternalError     = "common.internal_error"
)
