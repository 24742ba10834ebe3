package bcb

// SeriesPoint is one observation as served by the SGS JSON endpoint, e.g.
// {"data":"01/02/2024","valor":"0.80"}. Both fields arrive as strings; the value
// uses '.' as decimal separator.
type SeriesPoint struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// Response is the raw SGS payload for one date-range query.
type Response []SeriesPoint
