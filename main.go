package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/search"
	"github.com/matst80/slask-facets/pkg/search/cached"
	"github.com/matst80/slask-facets/pkg/search/elastic"
	"github.com/matst80/slask-facets/pkg/search/memory"
	"github.com/matst80/slask-facets/pkg/server"
	"github.com/matst80/slask-facets/pkg/storage"
	"github.com/matst80/slask-facets/pkg/tracking"
)

var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")

var listenAddress = envOr("LISTEN_ADDRESS", ":8080")
var dataDir = envOr("DATA_DIR", "data")
var facetsFile = envOr("FACETS_FILE", storage.DefaultFacetsFile)
var productsFile = envOr("PRODUCTS_FILE", storage.DefaultProductsFile)
var elasticUrl = os.Getenv("ELASTIC_URL")
var elasticIndex = envOr("ELASTIC_INDEX", "products")
var elasticUsername = os.Getenv("ELASTIC_USERNAME")
var elasticPassword = os.Getenv("ELASTIC_PASSWORD")
var elasticKeywordSuffix = os.Getenv("ELASTIC_KEYWORD_SUFFIX")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var rabbitUrl = os.Getenv("RABBIT_URL")
var country = envOr("COUNTRY", "se")

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// connectEngine picks the search backend and checks the facet registry
// against it. A registry field the backend does not have stops startup.
func connectEngine(reg *facet.Registry, disk *storage.DiskStorage) search.Engine {
	if elasticUrl != "" {
		engine, err := elastic.NewEngine(elastic.Config{
			Addresses:     strings.Split(elasticUrl, ","),
			Username:      elasticUsername,
			Password:      elasticPassword,
			Index:         elasticIndex,
			KeywordSuffix: elasticKeywordSuffix,
		})
		if err != nil {
			log.Fatalf("Failed to create elastic engine: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		fields, err := engine.Fields(ctx)
		if err != nil {
			log.Fatalf("Failed to read elastic mapping: %v", err)
		}
		if err := reg.ValidateFields(func(field string) bool { return fields[field] }); err != nil {
			log.Fatalf("Facet configuration does not match index %s: %v", elasticIndex, err)
		}
		log.Printf("Using elastic index %s at %s", elasticIndex, elasticUrl)
		return engine
	}

	products, err := disk.LoadProducts(productsFile)
	if err != nil {
		log.Fatalf("Failed to load products: %v", err)
	}
	engine := memory.NewEngine(products)
	if err := reg.ValidateFields(engine.HasField); err != nil {
		log.Fatalf("Facet configuration does not match products: %v", err)
	}
	log.Printf("Using in memory index with %d products", engine.Len())
	return engine
}

func main() {
	flag.Parse()

	disk := storage.NewDiskStorage(dataDir)
	reg, err := disk.LoadRegistry(facetsFile)
	if err != nil {
		log.Fatalf("Failed to load facet registry: %v", err)
	}

	var engine search.Engine = connectEngine(reg, disk)
	var hooks []common.ShutdownHook

	if redisUrl != "" {
		c := cached.NewEngine(engine, redisUrl, redisPassword, 0, time.Minute)
		hooks = append(hooks, common.CloseHook(c.Close))
		engine = c
		log.Printf("Caching engine responses in redis at %s", redisUrl)
	}

	var tracker tracking.Tracking
	if rabbitUrl != "" {
		trk, err := tracking.NewRabbitTracking(rabbitUrl, country)
		if err != nil {
			log.Printf("Failed to connect to rabbitmq for tracking: %v", err)
		} else {
			tracker = trk
			hooks = append(hooks, common.CloseHook(trk.Close))
		}
	}

	srv := &server.WebServer{
		Registry: reg,
		Engine:   engine,
		Routes:   server.DefaultRoutes(),
		Tracking: tracker,
	}

	mux := http.NewServeMux()
	srv.Handle(mux)
	if *enableProfiling {
		server.HandleProfiling(mux)
	}

	timeouts := common.LoadTimeoutConfig(common.DefaultTimeouts())
	common.RunServerWithShutdown(common.NewServer(listenAddress, mux, timeouts), "storefront facets", timeouts, hooks...)
}
