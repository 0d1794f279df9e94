package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

// --- Project ---

func ProjectNotFound() *Error {
	return New(CodeProjectNotFound, http.StatusNotFound, "Project not found")
}

func ProjectCreateFailed(cause error) *Error {
	return Wrap(CodeProjectCreateFailed, http.StatusInternalServerError, "Failed to create project", cause)
}

func ProjectListFailed(cause error) *Error {
	return Wrap(CodeProjectListFailed, http.StatusInternalServerError, "Failed to list projects", cause)
}

func SlugRequired() *Error {
	return New(CodeSlugRequired, http.StatusBadRequest, "Project slug is required")
}

func SlugInvalid() *Error {
	return New(CodeSlugInvalid, http.StatusBadRequest, "Slug must contain only lowercase letters, digits and hyphens")
}

func ProjectNameRequired() *Error {
	return New(CodeProjectNameRequired, http.StatusBadRequest, "Project name is required")
}

func ProjectNameTooLong() *Error {
	return New(CodeProjectNameTooLong, http.StatusBadRequest, "Project name must be at most 255 characters")
}

// --- Symbol resolution ---

func SymbolNotFound() *Error {
	return New(CodeSymbolNotFound, http.StatusNotFound, "Symbol not found")
}

func FileRequired() *Error {
	return New(CodeFileRequired, http.StatusBadRequest, "Query parameter 'file' is required")
}

func NameRequired() *Error {
	return New(CodeNameRequired, http.StatusBadRequest, "Query parameter 'name' is required")
}

func ModuleUnresolved(cause error) *Error {
	return Wrap(CodeModuleUnresolved, http.StatusUnprocessableEntity, "Module specifier could not be resolved", cause)
}

func ResolveFailed(cause error) *Error {
	return Wrap(CodeResolveFailed, http.StatusInternalServerError, "Symbol resolution failed", cause)
}

func SummaryLoadFailed(cause error) *Error {
	return Wrap(CodeSummaryLoadFailed, http.StatusInternalServerError, "Failed to load project summaries", cause)
}

func AliasLookupFailed(cause error) *Error {
	return Wrap(CodeAliasLookupFailed, http.StatusInternalServerError, "Failed to look up alias chain", cause)
}

// --- Bundle ---

func BundleRequired() *Error {
	return New(CodeBundleRequired, http.StatusBadRequest, "Multipart field 'bundle' is required")
}

func BundleUploadFailed(cause error) *Error {
	return Wrap(CodeBundleUploadFailed, http.StatusInternalServerError, "Failed to store bundle", cause)
}

func EnqueueFailed(cause error) *Error {
	return Wrap(CodeEnqueueFailed, http.StatusInternalServerError, "Failed to enqueue resolve job", cause)
}

// --- Health ---

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database is not ready")
}
