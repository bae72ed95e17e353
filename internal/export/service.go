package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eventzy/eventzy-go/internal/models"
	"github.com/eventzy/eventzy-go/pkg/export"
)

// Supported output formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Service renders a fetched event list into a CSV or PDF file on disk.
type Service struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewService constructs the export service.
func NewService(storage fileStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage: storage,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		now:     time.Now,
	}
}

// Events writes the given events in the requested format and returns the
// path of the written file.
func (s *Service) Events(events []models.Event, format string) (string, error) {
	data := dataset(events)
	stamp := s.now().Format("20060102-150405")

	switch strings.ToLower(format) {
	case FormatPDF:
		rendered, err := s.pdf.Render(data, "Eventzy Events")
		if err != nil {
			return "", err
		}
		return s.save(fmt.Sprintf("events-%s.pdf", stamp), rendered)
	case FormatCSV, "":
		rendered, err := s.csv.Render(data)
		if err != nil {
			return "", err
		}
		return s.save(fmt.Sprintf("events-%s.csv", stamp), rendered)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

func (s *Service) save(filename string, data []byte) (string, error) {
	path, err := s.storage.Save(filename, data)
	if err != nil {
		return "", err
	}
	s.logger.Info("events exported", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

func dataset(events []models.Event) export.Dataset {
	headers := []string{"Name", "Date", "Location", "Category", "Participants", "Joined"}
	rows := make([]map[string]string, 0, len(events))
	for _, event := range events {
		rows = append(rows, map[string]string{
			"Name":         event.Name,
			"Date":         event.DisplayDate(),
			"Location":     event.Location,
			"Category":     string(event.Category.Normalize()),
			"Participants": strconv.Itoa(event.ParticipantsCount),
			"Joined":       strconv.FormatBool(event.IsJoined),
		})
	}
	return export.Dataset{
		Headers: headers,
		Rows:    rows,
		Widths:  map[string]float64{"Name": 2, "Date": 1.5, "Location": 1.5},
	}
}
