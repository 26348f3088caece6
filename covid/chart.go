package covid

// ChartType enumerates the renderings the presentation layer understands.
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
	ChartPie  ChartType = "pie"
)

// ChartSeries is a render-ready dataset bundle. Labels index the x axis and
// every dataset is parallel to it: len(Datasets[name]) == len(Labels) always
// holds for a value built through NewChartSeries.
type ChartSeries struct {
	Type     ChartType            `json:"chartType"`
	Title    string               `json:"title"`
	XLabel   string               `json:"xAxisLabel"`
	YLabel   string               `json:"yAxisLabel"`
	Labels   []string             `json:"labels"`
	Datasets map[string][]float64 `json:"datasets"`
}

// NewChartSeries validates the labels/datasets shape at construction. A length
// mismatch is a bug in the calling strategy, not a recoverable runtime
// condition, so it surfaces as an IntegrityError.
func NewChartSeries(typ ChartType, title, xLabel, yLabel string, labels []string, datasets map[string][]float64) (ChartSeries, error) {
	for name, series := range datasets {
		if len(series) != len(labels) {
			return ChartSeries{}, &IntegrityError{
				Kind: IntegrityChart,
				Key:  name,
				Err:  errDatasetLength(name, len(series), len(labels)),
			}
		}
	}
	return ChartSeries{
		Type:     typ,
		Title:    title,
		XLabel:   xLabel,
		YLabel:   yLabel,
		Labels:   labels,
		Datasets: datasets,
	}, nil
}
