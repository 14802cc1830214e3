package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/i474232898/weather-forecast-api/internal/common"
	"github.com/i474232898/weather-forecast-api/internal/weather"
)

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return s.path
}

func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return f, nil
}

// New picks a RemoteSource for http(s) locations and a FileSource otherwise.
func New(location string, client *http.Client) weather.Source {
	if common.HasAnyPrefix(location, "http://", "https://") {
		return NewRemoteSource(client, location)
	}
	return NewFileSource(location)
}
