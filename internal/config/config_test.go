package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if cfg.WikidataURL != "https://www.wikidata.org/w/api.php" {
		t.Fatalf("wikidata url = %q", cfg.WikidataURL)
	}
	if cfg.SearchCacheTTL != 3600 || cfg.EntityCacheTTL != 86400 {
		t.Fatalf("cache ttls = %d/%d", cfg.SearchCacheTTL, cfg.EntityCacheTTL)
	}
	if cfg.RecommenderEnabled() {
		t.Fatal("recommender enabled without a URL")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RECOMMENDER_URL", "http://recommender:8000/refresh")
	t.Setenv("SEARCH_CACHE_TTL", "not-a-number")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if !cfg.RecommenderEnabled() {
		t.Fatal("recommender should be enabled")
	}
	// Unparseable numeric vars keep their defaults.
	if cfg.SearchCacheTTL != 3600 {
		t.Fatalf("search ttl = %d", cfg.SearchCacheTTL)
	}
}
