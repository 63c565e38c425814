package stock

import "github.com/abastoya/marketplace-api/internal/domain/entity"

// MutationData detalle de una mutación de stock. En éxito trae los niveles
// previo y nuevo; en INSUFFICIENT_STOCK trae disponible, solicitado y faltante
// para que el cliente pueda ofrecer una cantidad menor sin rederivar nada.
type MutationData struct {
	PreviousStock     int64           `json:"previous_stock"`
	NewStock          int64           `json:"new_stock"`
	QuantityChanged   int64           `json:"quantity_changed"`
	Product           *entity.Product `json:"product,omitempty"`
	AvailableStock    int64           `json:"available_stock,omitempty"`
	RequestedQuantity int64           `json:"requested_quantity,omitempty"`
	Shortfall         int64           `json:"shortfall,omitempty"`
}

// Result es el contrato de salida de toda operación mutadora del motor.
// Los errores nunca cruzan esta frontera como error crudo: van en Code/Error.
type Result struct {
	Success bool          `json:"success"`
	Data    *MutationData `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
	Code    string        `json:"code,omitempty"`
}

// AvailabilityData respuesta de CheckAvailability.
type AvailabilityData struct {
	CurrentStock      int64  `json:"current_stock"`
	RequestedQuantity int64  `json:"requested_quantity"`
	IsAvailable       bool   `json:"is_available"`
	Shortfall         int64  `json:"shortfall"`
	StockStatus       string `json:"stock_status"`
	Unit              string `json:"unit,omitempty"`
}

// AvailabilityResult envoltura de la consulta de disponibilidad.
type AvailabilityResult struct {
	Success bool              `json:"success"`
	Data    *AvailabilityData `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Code    string            `json:"code,omitempty"`
}

// StockInfo respuesta de GetStock.
type StockInfo struct {
	Stock       int64  `json:"stock"`
	StockStatus string `json:"stock_status"`
	Unit        string `json:"unit,omitempty"`
}

// StockInfoResult envoltura de la lectura de stock.
type StockInfoResult struct {
	Success bool       `json:"success"`
	Data    *StockInfo `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
	Code    string     `json:"code,omitempty"`
}

// BatchItemResult resultado individual de una compra dentro de un lote.
type BatchItemResult struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	Result    *Result `json:"result"`
}

// BatchResult agrega los resultados de un lote. Success solo si todos pasaron;
// los ítems fallidos no bloquean ni revierten a los demás.
type BatchResult struct {
	Success bool              `json:"success"`
	Results []BatchItemResult `json:"results"`
}

func failure(code, msg string) *Result {
	return &Result{Success: false, Code: code, Error: msg}
}

func failureWithData(code, msg string, data *MutationData) *Result {
	return &Result{Success: false, Code: code, Error: msg, Data: data}
}
