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

import "fmt"

// ValidateInternship validates a catalog item according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title must not be empty
//   - Organization must not be empty
//
// NOT validated (safe defaults applied downstream):
//   - Stipend (unparseable values normalize to 0)
//   - ApplyBy (unparseable dates simply earn no recency boost)
//   - Description and Skills (optional, default empty)
func ValidateInternship(item *Internship) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidInternship)
	}

	if item.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInternship, ErrEmptyID)
	}

	if item.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInternship, ErrEmptyTitle)
	}

	if item.Organization == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInternship, ErrEmptyOrganization)
	}

	return nil
}

// ValidateCatalog validates every item and checks id uniqueness.
// The loader calls this before the ranking core ever sees the catalog.
func ValidateCatalog(items []Internship) error {
	seen := make(map[ItemID]bool, len(items))
	for i := range items {
		if err := ValidateInternship(&items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if seen[items[i].ID] {
			return fmt.Errorf("item %d: %w: %s", i, ErrDuplicateID, items[i].ID)
		}
		seen[items[i].ID] = true
	}
	return nil
}
