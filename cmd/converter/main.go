package main

import (
	"flag"
	"log"
	"os"

	"github.com/matst80/slask-facets/pkg/search/memory"
	"github.com/matst80/slask-facets/pkg/storage"
)

var dataDir = "data"

var source = flag.String("in", storage.DefaultProductsFile, "product file to read")
var target = flag.String("out", storage.DefaultProductsFile+".gz", "gzipped product file to write")
var facetsFile = flag.String("facets", storage.DefaultFacetsFile, "facet configuration the products must satisfy")

func init() {
	d, ok := os.LookupEnv("DATA_DIR")
	if ok {
		dataDir = d
	}
}

// converter checks a product file against the facet configuration and
// stores it gzipped for faster startup.
func main() {
	flag.Parse()
	s := storage.NewDiskStorage(dataDir)

	reg, err := s.LoadRegistry(*facetsFile)
	if err != nil {
		log.Fatalf("Could not load facets: %v", err)
	}
	products, err := s.LoadProducts(*source)
	if err != nil {
		log.Fatalf("Could not load products: %v", err)
	}
	engine := memory.NewEngine(products)
	if err := reg.ValidateFields(engine.HasField); err != nil {
		log.Fatalf("Products do not match facets: %v", err)
	}
	if err := s.SaveGzippedJson(products, *target); err != nil {
		log.Fatalf("Could not save products: %v", err)
	}
	log.Printf("Saved %d products to %s", len(products), s.GetFileName(*target))
}
