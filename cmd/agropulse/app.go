package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/sandaruwank/AgroPulze/internal/application/catalog"
	"github.com/sandaruwank/AgroPulze/internal/application/dto"
	"github.com/sandaruwank/AgroPulze/internal/application/report"
	"github.com/sandaruwank/AgroPulze/internal/infrastructure/catalogapi"
	infrapdf "github.com/sandaruwank/AgroPulze/internal/infrastructure/pdf"
	"github.com/sandaruwank/AgroPulze/pkg/config"
)

// newApp arma el CLI. out recibe la salida de los comandos.
func newApp(cfg *config.Config, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "agropulse",
		Usage:     "administración del catálogo de productos AgroPulse",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "URL base de la API de catálogo",
				Value:   cfg.Catalog.BaseURL,
				EnvVars: []string{"CATALOG_API_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "timeout de cada llamada a la API",
				Value: cfg.Catalog.Timeout,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "lista el catálogo",
				Action: listAction,
			},
			{
				Name:   "create",
				Usage:  "crea un producto",
				Flags:  append(productFlags(true), &cli.StringFlag{Name: "image", Usage: "ruta de la imagen del producto"}),
				Action: createAction,
			},
			{
				Name:      "update",
				Usage:     "actualiza los campos indicados de un producto",
				ArgsUsage: "ID",
				Flags:     productFlags(false),
				Action:    updateAction,
			},
			{
				Name:      "delete",
				Usage:     "elimina un producto",
				ArgsUsage: "ID",
				Action:    deleteAction,
			},
			{
				Name:  "report",
				Usage: "genera " + report.Filename,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "directorio de salida", Value: cfg.Report.OutputDir},
					&cli.TimestampFlag{Name: "as-of", Usage: "fecha del reporte (RFC3339)", Layout: time.RFC3339},
				},
				Action: reportAction,
			},
		},
	}
}

func productFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Required: required},
		&cli.StringFlag{Name: "description", Required: required},
		&cli.StringFlag{Name: "price", Usage: "precio en LKR", Required: required},
		&cli.IntFlag{Name: "stock"},
		&cli.StringFlag{Name: "category", Usage: "white rice | red rice | imported | traditional", Required: required},
		&cli.StringFlag{Name: "weight", Usage: "peso neto", Required: required},
		&cli.StringFlag{Name: "unit", Usage: "unidad de peso (en update, junto con --weight)", Value: "kg"},
	}
}

func newStore(c *cli.Context) *catalog.Store {
	client := catalogapi.NewClient(c.String("api-url"), c.Duration("timeout"))
	return catalog.NewStore(client)
}

// loadStore crea el store y descarga el catálogo.
func loadStore(c *cli.Context) (*catalog.Store, error) {
	store := newStore(c)
	if err := store.Load(c.Context); err != nil {
		return nil, fail(err)
	}
	return store, nil
}

func listAction(c *cli.Context) error {
	store, err := loadStore(c)
	if err != nil {
		return err
	}
	return printCatalog(c.App.Writer, store)
}

func createAction(c *cli.Context) error {
	price, err := decimalFlag(c, "price")
	if err != nil {
		return err
	}
	weight, err := decimalFlag(c, "weight")
	if err != nil {
		return err
	}
	in := dto.CreateProductRequest{
		Name:        c.String("name"),
		Description: c.String("description"),
		Price:       price,
		Stock:       c.Int("stock"),
		Category:    c.String("category"),
		Weight:      dto.WeightDTO{Value: weight, Unit: c.String("unit")},
	}

	var img *dto.ImageUpload
	if path := c.String("image"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("abrir imagen: %v", err), 1)
		}
		defer f.Close()
		img = &dto.ImageUpload{Filename: filepath.Base(path), Content: f}
	}

	store := newStore(c)
	if err := store.Create(c.Context, in, img); err != nil {
		return fail(err)
	}
	return printCatalog(c.App.Writer, store)
}

func updateAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("falta el ID del producto", 1)
	}

	var in dto.UpdateProductRequest
	if c.IsSet("name") {
		v := c.String("name")
		in.Name = &v
	}
	if c.IsSet("description") {
		v := c.String("description")
		in.Description = &v
	}
	if c.IsSet("price") {
		v, err := decimalFlag(c, "price")
		if err != nil {
			return err
		}
		in.Price = &v
	}
	if c.IsSet("stock") {
		v := c.Int("stock")
		in.Stock = &v
	}
	if c.IsSet("category") {
		v := c.String("category")
		in.Category = &v
	}
	if c.IsSet("unit") && !c.IsSet("weight") {
		return cli.Exit("--unit requiere --weight", 1)
	}
	if c.IsSet("weight") {
		v, err := decimalFlag(c, "weight")
		if err != nil {
			return err
		}
		// Sin --unit la API conserva la unidad guardada.
		in.Weight = &dto.WeightDTO{Value: v}
		if c.IsSet("unit") {
			in.Weight.Unit = c.String("unit")
		}
	}

	store := newStore(c)
	if err := store.Update(c.Context, id, in); err != nil {
		return fail(err)
	}
	return printCatalog(c.App.Writer, store)
}

func deleteAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("falta el ID del producto", 1)
	}
	store := newStore(c)
	if err := store.Delete(c.Context, id); err != nil {
		return fail(err)
	}
	return printCatalog(c.App.Writer, store)
}

func reportAction(c *cli.Context) error {
	store, err := loadStore(c)
	if err != nil {
		return err
	}
	asOf := time.Now()
	if ts := c.Timestamp("as-of"); ts != nil {
		asOf = *ts
	}

	uc := report.NewUseCase(infrapdf.NewProductReportGenerator(infrapdf.DefaultBranding()), nil)
	path, err := uc.Save(c.Context, store.Products(), asOf, c.String("out"))
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

func printCatalog(w io.Writer, store *catalog.Store) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE (LKR)\tSTOCK\tWEIGHT")
	for _, p := range store.Products() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s %s\n",
			p.ID, p.Name, p.Category.Label(), p.Price.StringFixed(2), p.Stock, p.Weight.Value.String(), p.Weight.Unit)
	}
	return tw.Flush()
}

func decimalFlag(c *cli.Context, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(c.String(name)))
	if err != nil {
		return decimal.Zero, cli.Exit(fmt.Sprintf("--%s debe ser numérico", name), 1)
	}
	return d, nil
}

// fail convierte cualquier error en un único mensaje bloqueante con código de salida 1.
func fail(err error) error {
	return cli.Exit(err.Error(), 1)
}
