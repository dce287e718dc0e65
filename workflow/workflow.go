// Package workflow 实现下单业务的端到端编排（saga）。
//
// 一次下单是跨六个下游依赖的固定线性步骤序列，
// 每一步依赖前一步成功；步骤 1-5 任一失败即中止并原样返回该错误，
// 步骤 6-8（通知、清购物车、结算）为尽力而为，失败只记录日志。
//
// 已知且保留的正确性缺口：库存扣减成功后若订单创建失败，
// 已扣减的库存不会回补——本层没有 saga 级补偿。
// 同理，可用性校验与扣减是两次独立远程调用，
// 并发订单可能同时通过校验导致超卖。
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/events"
)

// Workflow 下单编排器
type Workflow struct {
	clients   *Clients
	publisher events.Publisher
	logger    clog.Logger
}

// New 创建下单编排器
//
// 参数:
//   - clients: 依赖客户端集合
//   - publisher: 订单事件发布器
//   - logger: 日志器，nil 时使用 clog.Discard()
func New(clients *Clients, publisher events.Publisher, logger clog.Logger) *Workflow {
	if logger == nil {
		logger = clog.Discard()
	} else {
		logger = logger.WithNamespace("workflow")
	}
	return &Workflow{
		clients:   clients,
		publisher: publisher,
		logger:    logger,
	}
}

// PlaceOrder 执行一次完整的下单工作流
//
// authHeader 为原始 Authorization 头（"Bearer <token>"）。
// 步骤顺序与失败语义见包文档。
func (w *Workflow) PlaceOrder(ctx context.Context, authHeader string, req *OrderRequest) (*Order, error) {
	if err := checkAuthHeader(authHeader); err != nil {
		return nil, err
	}

	// 1) 校验令牌，令牌归属必须与请求的客户一致
	info, err := w.clients.ValidateToken(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if info.CustomerID != "" && info.CustomerID != req.CustomerID {
		return nil, unauthorized("customer mismatch with token")
	}

	// 2) 获取客户档案（通知目标地址）
	customer, err := w.clients.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// 3) 逐项获取商品并校验库存；任一不足即整单中止，此时尚无任何写操作
	products := make(map[int64]*Product, len(req.Items))
	for _, item := range req.Items {
		product, err := w.clients.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		products[item.ProductID] = product

		check, err := w.clients.CheckStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !check.Available {
			return nil, insufficientStock(fmt.Sprintf(
				"Product %d insufficient stock. Available: %d",
				item.ProductID, check.CurrentStock))
		}
	}

	// 4) 逐项提交库存扣减
	// 每次扣减是独立的远程写操作，条目之间没有原子性；
	// 后续步骤失败时已完成的扣减不会回补。
	for _, item := range req.Items {
		if err := w.clients.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	// 5) 以下单时点捕获的名称与价格创建订单记录
	priced := make([]PricedItem, 0, len(req.Items))
	for _, item := range req.Items {
		product := products[item.ProductID]
		priced = append(priced, PricedItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
	}
	order, err := w.clients.CreateOrder(ctx, req, priced)
	if err != nil {
		return nil, err
	}

	// 6) 发布订单创建事件（尽力而为，结果只记录日志）
	result := w.publisher.OrderCreated(ctx, &events.OrderCreatedEvent{
		OrderID:       order.ID,
		CustomerEmail: customer.Email,
		CustomerID:    req.CustomerID,
	})
	w.logger.InfoContext(ctx, "order notification dispatched",
		clog.Int64("order_id", order.ID),
		clog.String("result", result.String()))

	// 7) 清空购物车（尽力而为）
	if err := w.clients.ClearCart(ctx, req.CustomerID); err != nil {
		w.logger.WarnContext(ctx, "cart clear failed",
			clog.String("customer_id", req.CustomerID),
			clog.Error(err))
	}

	// 8) 结算（当前支持的支付方式一律视为成功）
	if !settlePayment(req.PaymentMethod) {
		return nil, badRequest("payment failed")
	}

	w.logger.InfoContext(ctx, "order placed",
		clog.Int64("order_id", order.ID),
		clog.String("customer_id", req.CustomerID),
		clog.Int("items", len(req.Items)))

	return order, nil
}

// checkAuthHeader 校验 Authorization 头格式
func checkAuthHeader(authHeader string) error {
	if authHeader == "" {
		return unauthorized("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return unauthorized("invalid authorization header format")
	}
	return nil
}

// settlePayment 结算占位实现：COD 与在线支付当前都直接成功
func settlePayment(method string) bool {
	return true
}
