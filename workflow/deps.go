package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ceyewan/orderflow/gateway"
	"github.com/ceyewan/orderflow/xerrors"
)

// 依赖名，网关的熔断与缓存状态按这些键隔离
const (
	DepAuth         = "auth"
	DepCustomer     = "customer"
	DepProduct      = "product"
	DepOrder        = "order"
	DepNotification = "notification"
	DepCart         = "cart"
)

// Clients 经网关访问各下游依赖的类型化客户端集合
type Clients struct {
	gw gateway.Gateway
}

// NewClients 创建依赖客户端集合
func NewClients(gw gateway.Gateway) *Clients {
	return &Clients{gw: gw}
}

// ValidateToken 经身份依赖校验令牌，返回令牌归属的客户标识
func (c *Clients) ValidateToken(ctx context.Context, authHeader string) (*TokenInfo, error) {
	resp, err := c.gw.Do(ctx, &gateway.Request{
		Dependency: DepAuth,
		Method:     "GET",
		Path:       "/auth/validate",
		Headers:    map[string]string{"Authorization": authHeader},
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, unauthorized("token validation rejected by identity service")
	}

	var info TokenInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return nil, xerrors.Wrap(err, "workflow: decode token info")
	}
	return &info, nil
}

// GetCustomer 获取客户档案
func (c *Clients) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	resp, err := c.gw.Do(ctx, &gateway.Request{
		Dependency: DepCustomer,
		Method:     "GET",
		Path:       "/customers/" + url.PathEscape(customerID),
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, notFound(fmt.Sprintf("customer %s not found", customerID))
	}

	var customer Customer
	if err := json.Unmarshal(resp.Body, &customer); err != nil {
		return nil, xerrors.Wrap(err, "workflow: decode customer")
	}
	return &customer, nil
}

// GetProduct 获取商品详情
func (c *Clients) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	resp, err := c.gw.Do(ctx, &gateway.Request{
		Dependency: DepProduct,
		Method:     "GET",
		Path:       fmt.Sprintf("/products/%d", productID),
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, notFound(fmt.Sprintf("product %d not found", productID))
	}

	var product Product
	if err := json.Unmarshal(resp.Body, &product); err != nil {
		return nil, xerrors.Wrap(err, "workflow: decode product")
	}
	return &product, nil
}

// CheckStock 校验商品库存是否覆盖请求数量
func (c *Clients) CheckStock(ctx context.Context, productID int64, quantity int) (*StockCheck, error) {
	query := url.Values{}
	query.Set("quantity", strconv.Itoa(quantity))

	resp, err := c.gw.Do(ctx, &gateway.Request{
		Dependency: DepProduct,
		Method:     "GET",
		Path:       fmt.Sprintf("/products/%d/stock", productID),
		Query:      query,
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, notFound(fmt.Sprintf("product %d not found", productID))
	}

	var check StockCheck
	if err := json.Unmarshal(resp.Body, &check); err != nil {
		return nil, xerrors.Wrap(err, "workflow: decode stock check")
	}
	return &check, nil
}

// DecrementStock 提交库存扣减写操作
func (c *Clients) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	resp, err := c.gw.Do(ctx, &gateway.Request{
		Dependency: DepProduct,
		Method:     "PUT",
		Path:       fmt.Sprintf("/products/%d/stock", productID),
		Body:       map[string]int{"quantity": quantity},
	})
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return badRequest(fmt.Sprintf("stock decrement rejected for product %d", productID))
	}
	return nil
}

// CreateOrder 向订单依赖提交订单记录
func (c *Clients) CreateOrder(ctx context.Context, req *OrderRequest, items []PricedItem) (*Order, error) {
	payload := map[string]any{
		"customer_id":    req.CustomerID,
		"items":          items,
		"note":           req.Note,
		"payment_method": req.PaymentMethod,
	}

	resp, err := c.gw.Do(ctx, &gateway.Request{
		Dependency: DepOrder,
		Method:     "POST",
		Path:       "/orders",
		Body:       payload,
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		return nil, badRequest("order creation rejected")
	}

	var order Order
	if err := json.Unmarshal(resp.Body, &order); err != nil {
		return nil, xerrors.Wrap(err, "workflow: decode order")
	}
	return &order, nil
}

// ClearCart 清空客户购物车，结果不做检查（尽力而为）
func (c *Clients) ClearCart(ctx context.Context, customerID string) error {
	_, err := c.gw.Do(ctx, &gateway.Request{
		Dependency: DepCart,
		Method:     "DELETE",
		Path:       "/customers/" + url.PathEscape(customerID) + "/cart",
	})
	return err
}
