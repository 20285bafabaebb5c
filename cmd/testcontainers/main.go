package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/storefront/internal/config"
	"github.com/localnerve/storefront/internal/testutil"
	"github.com/testcontainers/testcontainers-go"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a storefront database (and redis when REDIS_IMAGE is set) in containers and print
the environment needed to point the server at them.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file providing POSTGRES_IMAGE or MARIADB_IMAGE, and REDIS_IMAGE

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx := context.Background()
	var containers []testcontainers.Container
	terminate := func() {
		for _, c := range containers {
			if err := testcontainers.TerminateContainer(c); err != nil {
				log.Printf("Failed to terminate container: %v\n", err)
			}
		}
	}

	var (
		db  testcontainers.Container
		cfg *config.Config
		err error
	)
	switch {
	case os.Getenv("POSTGRES_IMAGE") != "":
		db, cfg, err = testutil.RunPostgres(ctx, os.Getenv("POSTGRES_IMAGE"))
	case os.Getenv("MARIADB_IMAGE") != "":
		db, cfg, err = testutil.RunMariaDB(ctx, os.Getenv("MARIADB_IMAGE"))
	default:
		log.Fatalf("Set POSTGRES_IMAGE or MARIADB_IMAGE\n")
	}
	containers = append(containers, db)
	if err != nil {
		terminate()
		log.Fatalf("Failed to create database container: %v\n", err)
	}

	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword)

	if image := os.Getenv("REDIS_IMAGE"); image != "" {
		cache, addr, err := testutil.RunRedis(ctx, image)
		containers = append(containers, cache)
		if err != nil {
			terminate()
			log.Fatalf("Failed to create redis container: %v\n", err)
		}
		fmt.Printf("REDIS_ADDR=%s\n", addr)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test containers...\n", sig)
	terminate()
}
