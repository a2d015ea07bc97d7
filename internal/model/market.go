package model

// DailyRecord is one normalized day of the series.
type DailyRecord struct {
	Date   string  `json:"date" parquet:"date"`
	Close  float64 `json:"close" parquet:"close"`
	High   float64 `json:"high" parquet:"high"`
	Low    float64 `json:"low" parquet:"low"`
	Volume int64   `json:"volume" parquet:"volume"`
}

// CurrentMetrics describes the latest price and its change against the prior
// available observation.
type CurrentMetrics struct {
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Pct    float64 `json:"pct"`
}

// MarketDocument is the canonical output of one generation.
type MarketDocument struct {
	Ticker  string         `json:"ticker"`
	Series  []DailyRecord  `json:"series"`
	Current CurrentMetrics `json:"current"`
}

// Last returns the most recent record of the series.
func (d *MarketDocument) Last() (DailyRecord, bool) {
	if d == nil || len(d.Series) == 0 {
		return DailyRecord{}, false
	}
	return d.Series[len(d.Series)-1], true
}
