// main.go
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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/localnerve/storefront/internal/config"
	"github.com/localnerve/storefront/internal/database"
	applog "github.com/localnerve/storefront/internal/logger"
	"github.com/localnerve/storefront/internal/services"
	"github.com/localnerve/storefront/internal/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := applog.Must(cfg)
	zap.ReplaceGlobals(zlog)

	db, err := database.Connect(cfg, zlog)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	var cache *services.ProductCache
	if cfg.CacheEnabled() {
		client := services.NewRedisClient(cfg.RedisAddr)
		defer client.Close()
		cache = services.NewProductCache(client, cfg.CacheTTL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Perform health check
	result := services.HealthCheck(ctx, cfg, db, cache)

	// The API listener is checked too when it should be running
	if err := utils.PingAPI(cfg.HostAPI); err != nil {
		result.Details["api_error"] = err.Error()
		result.Status = "unhealthy"
		if result.ErrorMessage == "" {
			result.ErrorMessage = "API unreachable"
		}
	} else {
		result.Details["api"] = "ok"
	}

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
