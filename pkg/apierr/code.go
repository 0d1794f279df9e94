package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInternalError      Code = "INTERNAL_ERROR"
)

// Project errors.
const (
	CodeProjectNotFound     Code = "PROJECT_NOT_FOUND"
	CodeProjectCreateFailed Code = "PROJECT_CREATE_FAILED"
	CodeProjectListFailed   Code = "PROJECT_LIST_FAILED"
	CodeSlugRequired        Code = "SLUG_REQUIRED"
	CodeSlugInvalid         Code = "SLUG_INVALID"
	CodeProjectNameRequired Code = "PROJECT_NAME_REQUIRED"
	CodeProjectNameTooLong  Code = "PROJECT_NAME_TOO_LONG"
)

// Symbol resolution errors.
const (
	CodeSymbolNotFound    Code = "SYMBOL_NOT_FOUND"
	CodeFileRequired      Code = "FILE_REQUIRED"
	CodeNameRequired      Code = "NAME_REQUIRED"
	CodeModuleUnresolved  Code = "MODULE_UNRESOLVED"
	CodeResolveFailed     Code = "RESOLVE_FAILED"
	CodeSummaryLoadFailed Code = "SUMMARY_LOAD_FAILED"
	CodeAliasLookupFailed Code = "ALIAS_LOOKUP_FAILED"
)

// Bundle errors.
const (
	CodeBundleRequired     Code = "BUNDLE_REQUIRED"
	CodeBundleUploadFailed Code = "BUNDLE_UPLOAD_FAILED"
	CodeEnqueueFailed      Code = "ENQUEUE_FAILED"
)

// Health errors.
const (
	CodeDatabaseNotReady Code = "DATABASE_NOT_READY"
)
