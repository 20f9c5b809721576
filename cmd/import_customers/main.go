// import_customers importa un archivo de clientes (CSV o XLSX) desde línea de comandos
// y escribe el resumen de la importación en stdout como JSON.
//
// Uso: go run ./cmd/import_customers [-format csv|xlsx] [-encoding utf8|sjis] [-dry-run] clientes.csv
// Con -dry-run la importación corre contra el almacén en memoria: sirve para revisar el archivo sin escribir.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/customer"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/ports"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/csvimport"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/memory"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/postgres"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/config"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/logger"
)

func main() {
	format := flag.String("format", "", "csv | xlsx (por defecto, la extensión del archivo)")
	encoding := flag.String("encoding", csvimport.EncodingUTF8, "codificación del CSV: utf8 | sjis")
	dryRun := flag.Bool("dry-run", false, "importar contra el almacén en memoria, sin escribir en la base")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_customers [flags] <archivo>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)
	if *format == "" {
		*format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer archivo: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var (
		customers repository.CustomerRepository
		tags      repository.TagRepository
		links     repository.CustomerTagRepository
	)
	if *dryRun || cfg.App.StoreDriver == config.StoreDriverMemory {
		store := memory.NewStore(cfg.Import.InvoiceNumberPrefix)
		customers, tags, links = store.Customers(), store.Tags(), store.CustomerTags()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		customers = postgres.NewCustomerRepository(pool)
		tags = postgres.NewTagRepository(pool)
		links = postgres.NewCustomerTagRepository(pool)
	}

	resolver := tag.NewResolver(tags, links)
	customerUC := customer.NewUseCase(customers, links, resolver, log)
	importer := customer.NewImportUseCase(csvimport.NewParser(), customerUC, ports.NopMetrics{}, log, cfg.Import.MaxBytes)

	summary, err := importer.ImportEncoded(ctx, raw, *format, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir resumen: %v\n", err)
		os.Exit(1)
	}
	if summary.Failed > 0 {
		os.Exit(3)
	}
}
