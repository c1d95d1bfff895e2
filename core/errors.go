// Copyright 2025 Poiesic Systems
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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidInternship indicates an Internship failed validation.
	ErrInvalidInternship = errors.New("invalid internship")

	// ErrEmptyID indicates the internship id field is empty.
	ErrEmptyID = errors.New("internship id cannot be empty")

	// ErrDuplicateID indicates two catalog items share an id.
	ErrDuplicateID = errors.New("duplicate internship id")

	// ErrEmptyTitle indicates the title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyOrganization indicates the organization field is empty.
	ErrEmptyOrganization = errors.New("organization cannot be empty")

	// ErrEmptyQuery indicates a ranking query was empty or whitespace-only.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrDimensionMismatch indicates embedding vectors of different lengths
	// met in a single ranking run. This is a configuration error, not a
	// recoverable one.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
