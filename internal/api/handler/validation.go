package handler

import (
	"regexp"

	"github.com/davidenochk/symgraph/pkg/apierr"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,61}[a-z0-9]$`)

func validateSlug(slug string) *apierr.Error {
	if slug == "" {
		return apierr.SlugRequired()
	}
	if !slugRegex.MatchString(slug) {
		return apierr.SlugInvalid()
	}
	return nil
}

func validateProjectName(name string) *apierr.Error {
	if name == "" {
		return apierr.ProjectNameRequired()
	}
	if len(name) > 255 {
		return apierr.ProjectNameTooLong()
	}
	return nil
}
