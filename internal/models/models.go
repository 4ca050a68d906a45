package models

import "strings"

// Ключи полей в документах, как они пришли из CSV выгрузки ASV
const (
	TemperatureKey = "Temperature (c)"
	SalinityKey    = "Salinity (ppt)"
	OxygenKey      = "ODO mg/L"

	LatitudeKey  = "Latitude"
	LongitudeKey = "Longitude"

	DateKey         = "Date m/d/y   "
	DateKeyFallback = "Date"
	TimeKey         = "Time hh:mm:ss"
	TimeKeyFallback = "Time"
	TimestampKey    = "timestamp"
)

// Record одно наблюдение датчика: имя поля -> значение как в хранилище
type Record map[string]interface{}

// Clone возвращает поверхностную копию записи
func (r Record) Clone() Record {
	out := make(Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Field отслеживаемое числовое поле
type Field struct {
	Alias     string // короткое имя в параметрах запроса
	Canonical string
	Key       string // ключ в документе
}

// TrackedFields числовые поля, по которым строятся фильтры, статистика и выбросы
var TrackedFields = []Field{
	{Alias: "temp", Canonical: "Temperature", Key: TemperatureKey},
	{Alias: "sal", Canonical: "Salinity", Key: SalinityKey},
	{Alias: "odo", Canonical: "Dissolved Oxygen", Key: OxygenKey},
}

// PositionKeys координатные поля, приводимые к float при выдаче
var PositionKeys = []string{LatitudeKey, LongitudeKey}

var aliases = map[string]Field{
	"temp":        TrackedFields[0],
	"temperature": TrackedFields[0],
	"sal":         TrackedFields[1],
	"salinity":    TrackedFields[1],
	"odo":         TrackedFields[2],
	"oxygen":      TrackedFields[2],
}

// LookupField находит поле по алиасу (регистр не важен)
func LookupField(alias string) (Field, bool) {
	f, ok := aliases[strings.ToLower(strings.TrimSpace(alias))]
	return f, ok
}

// ObservationsResult ответ /api/observations
type ObservationsResult struct {
	Count int      `json:"count"`
	Items []Record `json:"items"`
}

// Summary сводная статистика по полю
type Summary struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	P25   *float64 `json:"p25"`
	P50   *float64 `json:"p50"`
	P75   *float64 `json:"p75"`
	Max   *float64 `json:"max"`
}

// Thresholds пороги метода выбросов; заполняются поля своего метода
type Thresholds struct {
	Method string   `json:"method"`
	K      float64  `json:"k"`
	Q1     *float64 `json:"q1,omitempty"`
	Q3     *float64 `json:"q3,omitempty"`
	IQR    *float64 `json:"iqr,omitempty"`
	Low    *float64 `json:"low,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Mean   *float64 `json:"mean,omitempty"`
	StdDev *float64 `json:"sd,omitempty"`
}

// OutliersResult ответ /api/outliers
type OutliersResult struct {
	Count      int         `json:"count"`
	Field      string      `json:"field"`
	Method     string      `json:"method"`
	Items      []Record    `json:"items"`
	Thresholds *Thresholds `json:"thresholds"`
}
