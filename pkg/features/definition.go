package features

// Definition describes one stored feature. Params is persisted as JSON next to
// the name so that consumers can tell how a value was computed.
type Definition struct {
	Name        string                 `json:"name" yaml:"name" db:"name"`
	Description string                 `json:"description" yaml:"description" db:"description"`
	Params      map[string]interface{} `json:"params" yaml:"params"`
}

const (
	Ret1       = "ret_1"
	Vol20      = "vol_20"
	SMA20      = "sma_20"
	EMA20      = "ema_20"
	RSI14      = "rsi_14"
	ATR14      = "atr_14"
	VWAP20     = "vwap_20"
	VWAPDist20 = "vwap_dist_20"
)

// ColumnPrefix is prepended to feature names in wide tabular output.
const ColumnPrefix = "feature__"

var DefaultDefinitions = []Definition{
	{Ret1, "Log return: log(close).diff()", map[string]interface{}{"kind": "return", "window": 1}},
	{Vol20, "Rolling std of ret_1, window=20", map[string]interface{}{"kind": "vol", "window": 20}},
	{SMA20, "Simple moving average of close, window=20", map[string]interface{}{"kind": "sma", "window": 20}},
	{EMA20, "Exponential moving average of close, span=20", map[string]interface{}{"kind": "ema", "span": 20}},
	{RSI14, "Wilder RSI of close, window=14", map[string]interface{}{"kind": "rsi", "window": 14}},
	{ATR14, "Wilder ATR, window=14", map[string]interface{}{"kind": "atr", "window": 14}},
	{VWAP20, "Rolling VWAP approximation, window=20", map[string]interface{}{"kind": "vwap", "window": 20}},
	{VWAPDist20, "(close - vwap_20)/close", map[string]interface{}{"kind": "vwap_dist", "window": 20}},
}

// Names returns the feature names of defs in order.
func Names(defs []Definition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
