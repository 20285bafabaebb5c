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
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/storefront/data"
	"github.com/localnerve/storefront/internal/config"
	"github.com/localnerve/storefront/internal/database"
	applog "github.com/localnerve/storefront/internal/logger"
	"github.com/localnerve/storefront/internal/services"
	"go.uber.org/zap"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var seedFilename string
	flag.StringVar(&seedFilename, "s", "", "path to a seed JSON file, defaults to the embedded seed")
	flag.Parse()

	usage := `
Replace all users and products in the storefront database with seed data.

Usage:

seed [-h] [-f ENV_FILE_PATH] [-s SEED_FILE_PATH]

ENV_FILE_PATH: path to the .env file
SEED_FILE_PATH: path to a JSON file shaped like data/seed.json

example
  seed -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	zlog := applog.Must(cfg)
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	raw := data.SeedJSON
	if seedFilename != "" {
		raw, err = os.ReadFile(seedFilename)
		if err != nil {
			zlog.Fatal("Failed to read seed file", zap.String("file", seedFilename), zap.Error(err))
		}
	}
	seed, err := services.LoadSeedData(raw)
	if err != nil {
		zlog.Fatal("Failed to parse seed data", zap.Error(err))
	}

	db, err := database.Connect(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := services.RunSeed(ctx, db, seed)
	if err != nil {
		zlog.Fatal("Seed failed", zap.Error(err))
	}

	if cfg.CacheEnabled() {
		client := services.NewRedisClient(cfg.RedisAddr)
		defer client.Close()
		services.NewProductCache(client, cfg.CacheTTL).Clear(ctx)
	}

	fmt.Println(result)
}
