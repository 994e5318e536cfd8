package storage

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/search"
)

const (
	DefaultFacetsFile   = "facets.yaml"
	DefaultProductsFile = "products.json"
)

// LoadRegistry reads a facet configuration file, YAML or JSON by extension,
// and validates it.
func (d *DiskStorage) LoadRegistry(name string) (*facet.Registry, error) {
	var cfg facet.Config
	var err error
	if strings.HasSuffix(name, ".json") {
		err = d.LoadJson(&cfg, name)
	} else {
		err = d.LoadYaml(&cfg, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load facets %s: %w", name, err)
	}
	reg, err := facet.NewRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid facets %s: %w", name, err)
	}
	log.Printf("Loaded %d facets from %s", len(reg.Keys()), name)
	return reg, nil
}

// LoadProducts reads product documents, gzipped when the name ends in .gz.
func (d *DiskStorage) LoadProducts(name string) ([]search.Hit, error) {
	products := make([]search.Hit, 0)
	var err error
	if strings.HasSuffix(name, ".gz") {
		err = d.LoadGzippedJson(&products, name)
	} else {
		err = d.LoadJson(&products, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load products %s: %w", name, err)
	}
	log.Printf("Loaded %d products from %s", len(products), name)
	return products, nil
}

func (d *DiskStorage) LoadYaml(data any, filename string) error {
	file, err := os.Open(d.GetFileName(filename))
	if err != nil {
		return err
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	err = dec.Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *DiskStorage) LoadJson(data any, filename string) error {
	file, err := os.Open(d.GetFileName(filename))
	if err != nil {
		return err
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	err = dec.Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *DiskStorage) LoadGzippedJson(data any, filename string) error {
	file, err := os.Open(d.GetFileName(filename))
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = json.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *DiskStorage) SaveGzippedJson(data any, filename string) error {
	name := d.GetFileName(filename)
	tmpName := name + ".tmp"
	file, err := os.Create(tmpName)
	if err != nil {
		return err
	}
	zipWriter := gzip.NewWriter(file)
	err = json.NewEncoder(zipWriter).Encode(data)
	if closeErr := zipWriter.Close(); err == nil {
		err = closeErr
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmpName, name)
}
