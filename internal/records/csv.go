package records

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/models"
)

// resultRow is one line of a trade-result CSV export.
type resultRow struct {
	ID         string `csv:"id"`
	Symbol     string `csv:"symbol"`
	Date       string `csv:"date"`
	Result     string `csv:"result"`
	ProfitLoss string `csv:"profit_loss"`
	Reason     string `csv:"reason"`
}

// Accepted CSV date layouts.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// DecodeResultsCSV reads trade results from CSV with the header
// id,symbol,date,result,profit_loss,reason. Rows must be most recent first.
func DecodeResultsCSV(r io.Reader) ([]models.TradeResult, error) {
	var rows []*resultRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	out := make([]models.TradeResult, 0, len(rows))
	for i, row := range rows {
		res, err := row.toResult()
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", KindResults, i+1, err)
		}
		if err := res.Validate(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", KindResults, i+1, err)
		}
		out = append(out, res)
	}
	return out, nil
}

func (row *resultRow) toResult() (models.TradeResult, error) {
	res := models.TradeResult{
		ID:     strings.TrimSpace(row.ID),
		Symbol: strings.TrimSpace(row.Symbol),
		Reason: strings.TrimSpace(row.Reason),
	}

	if err := res.Result.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(row.Result)))); err != nil {
		return res, err
	}

	pnl, err := strconv.ParseFloat(strings.TrimSpace(row.ProfitLoss), 64)
	if err != nil {
		return res, apperrors.NewValidationError("profit_loss", row.ProfitLoss, "must be a number")
	}
	res.ProfitLoss = pnl

	if d := strings.TrimSpace(row.Date); d != "" {
		at, err := parseDate(d)
		if err != nil {
			return res, apperrors.NewValidationError("date", row.Date, "unrecognized date")
		}
		res.Date = at
	}
	return res, nil
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// EncodeResultsCSV writes results in the format DecodeResultsCSV reads.
func EncodeResultsCSV(w io.Writer, results []models.TradeResult) error {
	rows := make([]*resultRow, len(results))
	for i, r := range results {
		row := &resultRow{
			ID:         r.ID,
			Symbol:     r.Symbol,
			Result:     string(r.Result),
			ProfitLoss: strconv.FormatFloat(r.ProfitLoss, 'f', -1, 64),
			Reason:     r.Reason,
		}
		if !r.Date.IsZero() {
			row.Date = r.Date.Format(time.RFC3339)
		}
		rows[i] = row
	}
	return gocsv.Marshal(rows, w)
}
