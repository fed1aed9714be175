package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/logogen/logogen-backend/internal/catalog"
	checkouthttp "github.com/logogen/logogen-backend/internal/checkout/http"
	ordershttp "github.com/logogen/logogen-backend/internal/orders/http"
	"github.com/logogen/logogen-backend/internal/preview"
)

type V1Deps struct {
	Checkout *checkouthttp.Handler
	Orders   *ordershttp.Handler
	Catalog  *catalog.Handler
	Preview  *preview.Handler
	// Limit guards the endpoints that call Stripe or render images.
	Limit gin.HandlerFunc
	// AdminAuth runs before every /admin route; admin routes are not mounted when empty.
	AdminAuth []gin.HandlerFunc
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	var limit []gin.HandlerFunc
	if dep.Limit != nil {
		limit = append(limit, dep.Limit)
	}

	dep.Checkout.Register(api, limit...)
	dep.Preview.Register(api, limit...)
	dep.Orders.Register(api)
	dep.Catalog.Register(api.Group("/catalog"))

	if len(dep.AdminAuth) > 0 {
		dep.Orders.RegisterAdmin(api, dep.AdminAuth...)
	}
}
