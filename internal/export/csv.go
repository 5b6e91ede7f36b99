// Package export writes parsed scores in formats consumed by other tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ironsheep/staffscan/internal/score"
)

// DetectionHeader is the column layout of a detection-label CSV, the
// common bounding-box format read by object-detection training tools.
var DetectionHeader = []string{"filename", "width", "height", "class", "xmin", "ymin", "xmax", "ymax"}

// Page pairs a parsed score with the image file it came from.
type Page struct {
	Filename string
	Score    *score.Score
}

// WriteDetectionCSV writes one row per detected element of every page.
//
// Notes are written with their full-height bounds (the note's columns over
// the staff's rows), the crop a symbol classifier is trained on. Their class
// is the note's label, or "note" when unlabeled. With includeStaff, each
// staff band is written first with class "staff".
//
// width and height are the size of the element crop; xmax and ymax are
// exclusive. Coordinates are in each score's working space.
func WriteDetectionCSV(w io.Writer, pages []Page, includeStaff bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DetectionHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, page := range pages {
		if page.Score == nil {
			continue
		}
		for i := range page.Score.StaffLines {
			staff := &page.Score.StaffLines[i]
			if includeStaff {
				if err := cw.Write(detectionRow(page.Filename, "staff", staff.Bounds)); err != nil {
					return fmt.Errorf("failed to write staff row: %w", err)
				}
			}
			for j := range staff.Notes {
				note := &staff.Notes[j]
				row := detectionRow(page.Filename, note.LabelOr("note"), note.FullHeightBounds(staff))
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("failed to write note row: %w", err)
				}
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// WriteDetectionCSVFile writes the CSV to path, creating parent
// directories as needed.
func WriteDetectionCSVFile(path string, pages []Page, includeStaff bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}

	if err := WriteDetectionCSV(f, pages, includeStaff); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func detectionRow(filename, class string, box score.BoundingBox) []string {
	return []string{
		filename,
		strconv.Itoa(box.Width),
		strconv.Itoa(box.Height),
		class,
		strconv.Itoa(box.X),
		strconv.Itoa(box.Y),
		strconv.Itoa(box.Right()),
		strconv.Itoa(box.Bottom()),
	}
}
