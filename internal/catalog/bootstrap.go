package catalog

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Kim2783/Kidstodolist/internal/models"
)

// LoadFile reads a catalog CSV from disk.
func LoadFile(path string, roster []models.Child) (models.Catalog, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Catalog{}, nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer file.Close()

	return Load(file, roster)
}

// LoadURL fetches a catalog CSV, typically the raw link to a spreadsheet
// export kept on GitHub.
func LoadURL(url string, roster []models.Child) (models.Catalog, []string, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	response, err := client.Get(url)
	if err != nil {
		return models.Catalog{}, nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return models.Catalog{}, nil, fmt.Errorf("fetching catalog: unexpected status %s", response.Status)
	}

	return Load(response.Body, roster)
}
