// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/apiversion/logging"
	"rivaas.dev/apiversion/version"
)

var settingsValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("config"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("version", func(fl validator.FieldLevel) bool {
		_, err := version.Parse(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		_, err := logging.ParseLevel(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("header", func(fl validator.FieldLevel) bool {
		return validHeaderName(fl.Field().String())
	})

	return v
})

// Validate checks s field by field. Every failing field is reported as an
// *[Error] whose Field is the dotted settings key; the errors are joined.
func (s *Settings) Validate() error {
	if err := settingsValidator().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return NewError("settings", "validate", err)
		}

		errs := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			errs = append(errs, NewFieldError("settings", fieldPath(fe), "validate", errors.New(tagMessage(fe))))
		}
		return errors.Join(errs...)
	}

	for i, r := range s.Readers {
		if _, err := r.Carrier(); err != nil {
			return NewFieldError("settings", fmt.Sprintf("readers[%d]", i), "validate", err)
		}
	}

	return nil
}

// validHeaderName reports whether name is an RFC 9110 token.
func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= ' ' || r >= 0x7f || strings.ContainsRune(`"(),/:;<=>?@[\]{}`, r) {
			return false
		}
	}

	return true
}

// fieldPath drops the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	return path
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return fmt.Sprintf("is required when %s", strings.ToLower(strings.Replace(fe.Param(), " ", " is ", 1)))
	case "required_without":
		return fmt.Sprintf("is required when %s is empty", strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "url":
		return "must be a valid URL"
	case "version":
		return fmt.Sprintf("%q is not a valid API version", fe.Value())
	case "level":
		return fmt.Sprintf("%q is not a log level", fe.Value())
	case "header":
		return fmt.Sprintf("%q is not a valid header name", fe.Value())
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
