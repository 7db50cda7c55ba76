package grid

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
)

// ErrInvalidChart indicates an unknown chart type or a range that holds no
// series.
var ErrInvalidChart = errors.New("invalid chart")

// BuildChart reads a chart of the given type over r: the first row of r
// gives the labels and each further row one series.
func BuildChart(s *models.Sheet, chartType string, r models.Range) (models.Chart, error) {
	if err := checkChart(s, chartType, r); err != nil {
		return models.Chart{}, err
	}

	chart := models.Chart{ChartType: chartType, Range: r}
	labelRow := s.Data[r.R1-1]
	chart.Labels = slices.Clone(labelRow[r.C1-1 : r.C2])
	xRange := rowRange(r.R1, r.C1, r.C2)

	for row := r.R1 + 1; row <= r.R2; row++ {
		values := make([]float64, 0, r.C2-r.C1+1)
		for _, v := range s.Data[row-1][r.C1-1 : r.C2] {
			values = append(values, chartValue(v))
		}
		chart.Series = append(chart.Series, models.ChartSeries{
			Name:   fmt.Sprintf("Dataset %d", row-r.R1),
			XRange: xRange,
			YRange: rowRange(row, r.C1, r.C2),
			Values: values,
		})
	}
	return chart, nil
}

// AddChart records a chart of the given type over r in the sheet.
func AddChart(s *models.Sheet, chartType string, r models.Range) error {
	if err := checkChart(s, chartType, r); err != nil {
		return err
	}
	s.Charts = append(s.Charts, models.Chart{ChartType: chartType, Range: r})
	return nil
}

func checkChart(s *models.Sheet, chartType string, r models.Range) error {
	if !slices.Contains(models.ChartTypes, chartType) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidChart, chartType)
	}
	if r.R1 < 1 || r.C1 < 1 || r.R2 > s.Rows() || r.C2 > s.Cols() || r.R1 > r.R2 || r.C1 > r.C2 {
		return fmt.Errorf("%w: chart range %s (sheet is %dx%d)", ErrOutOfBounds, r, s.Rows(), s.Cols())
	}
	if r.R2 == r.R1 {
		return fmt.Errorf("%w: range %s has a label row but no data rows", ErrInvalidChart, r)
	}
	return nil
}

// chartValue converts a cell to a number the way a chart reads it: empty
// and non-numeric cells count as 0.
func chartValue(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func rowRange(row, c1, c2 int) string {
	start, _ := excelize.CoordinatesToCellName(c1, row)
	end, _ := excelize.CoordinatesToCellName(c2, row)
	return start + ":" + end
}
