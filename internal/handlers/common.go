// common.go
//
// A Go Fiber storefront backend: catalog, accounts, product images and realtime presence
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of storefront.
// storefront is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// storefront is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with storefront.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localnerve/storefront/internal/services"
	"github.com/localnerve/storefront/internal/types"
)

// parseBody decodes the request body into out. Validation happens in the services,
// after input normalization.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return types.NewValidation("Invalid request body: " + err.Error())
	}
	return nil
}

// parsePagination reads limit and offset from the query string
func parsePagination(c *fiber.Ctx) (int, int, error) {
	limit := services.DefaultLimit
	offset := services.DefaultOffset

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, types.NewValidation("limit must be a positive number")
		}
		limit = n
	}

	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, 0, types.NewValidation("offset must not be less than 0")
		}
		offset = n
	}

	return limit, offset, nil
}

// uuidParam returns the named route parameter when it is a UUID
func uuidParam(c *fiber.Ctx, name string) (string, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return "", types.NewValidation("Validation failed (uuid is expected)")
	}
	return id.String(), nil
}
