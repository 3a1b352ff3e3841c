package directory

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ignite/subscriber-portal/internal/pkg/logger"
)

// CSVHeader is the fixed export column order.
var CSVHeader = []string{"ID", "Email", "First Name", "Last Name", "Start Date", "Date Updated"}

// WriteCSV streams subscribers as CSV rows. The ID column is the 1-based
// position in the sequence, not a remote identifier. Missing values render
// as "N/A". Rows are flushed one at a time so memory stays bounded by a
// single row regardless of tenant size.
func WriteCSV(w io.Writer, subs []Subscriber) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	cw.Flush()

	for i, sub := range subs {
		row := []string{
			strconv.Itoa(i + 1),
			orMissing(sub.Email),
			orMissing(sub.FirstName),
			orMissing(sub.LastName),
			orMissing(sub.StartDate),
			orMissing(sub.LastUpdated),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func orMissing(v string) string {
	if v == "" {
		return missingValue
	}
	return v
}

// ExportCSV fetches detailed subscribers (empty groupID = all groups) and
// streams them to w. A nil subscriber set produces the header row only.
func (s *Service) ExportCSV(ctx context.Context, groupID string, w io.Writer) error {
	subs, err := s.DetailedSubscribers(ctx, groupID)
	if err != nil {
		return err
	}

	logger.Info("exporting subscribers to CSV", "group_id", groupID, "count", len(subs))
	return WriteCSV(w, subs)
}
