package twelvedata

// priceResponse is the payload of GET /price.
// Errors come back as 2xx with status "error" plus code/message.
type priceResponse struct {
	Price   string `json:"price"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// timeSeriesResponse is the payload of GET /time_series.
type timeSeriesResponse struct {
	Meta    seriesMeta    `json:"meta"`
	Values  []seriesValue `json:"values"`
	Status  string        `json:"status"`
	Code    int           `json:"code"`
	Message string        `json:"message"`
}

type seriesMeta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Type     string `json:"type"`
}

// seriesValue is one bar; all numeric fields arrive as strings, newest first.
type seriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}
