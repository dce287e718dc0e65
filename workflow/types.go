package workflow

// OrderItem 请求中的单个购买项
type OrderItem struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// OrderRequest 一次下单请求的业务载荷
//
// 随单次工作流执行构造和销毁，不承载独立生命周期。
type OrderRequest struct {
	CustomerID    string      `json:"customer_id" binding:"required"`
	Items         []OrderItem `json:"items" binding:"required,min=1"`
	Note          string      `json:"note"`
	PaymentMethod string      `json:"payment_method"`
}

// PricedItem 带下单时点价格与名称的购买项
//
// 价格和名称在下单时点捕获并随订单提交，后续不再回查。
type PricedItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order 订单依赖返回的订单记录
type Order struct {
	ID          int64    `json:"id"`
	CustomerID  string   `json:"customer_id"`
	Status      string   `json:"status"`
	TotalAmount *float64 `json:"total_amount"`
}

// TokenInfo 身份依赖返回的令牌信息
type TokenInfo struct {
	CustomerID string `json:"customer_id"`
	Role       string `json:"role"`
}

// Customer 客户依赖返回的客户档案
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product 商品依赖返回的商品详情
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// StockCheck 库存校验结果
type StockCheck struct {
	Available    bool `json:"available"`
	CurrentStock int  `json:"current_stock"`
}
