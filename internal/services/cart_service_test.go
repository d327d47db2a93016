// internal/services/cart_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/abhi7515/shopdev/internal/apperrors"
	"github.com/abhi7515/shopdev/internal/models"
	"github.com/abhi7515/shopdev/internal/storefront"
)

type fakeCheckoutSource struct {
	cart  *storefront.Cart
	err   error
	lines []storefront.LineItem
}

func (f *fakeCheckoutSource) CreateCart(ctx context.Context, items []storefront.LineItem) (*storefront.Cart, error) {
	f.lines = items
	if f.err != nil {
		return nil, f.err
	}
	return f.cart, nil
}

type CartServiceTestSuite struct {
	suite.Suite
	db           *gorm.DB
	catalog      *CatalogService
	service      *CartService
	conversation *models.Conversation
}

func (suite *CartServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.catalog = NewCatalogService(suite.db, 24)
	suite.service = NewCartService(suite.db, suite.catalog)

	ctx := context.Background()
	suite.Require().NoError(suite.catalog.Upsert(ctx, testShop, testProduct("gid://product/1", "Blue Shirt")))

	suite.conversation = &models.Conversation{Shop: testShop, SessionID: "session_test"}
	suite.Require().NoError(suite.db.Create(suite.conversation).Error)
}

func (suite *CartServiceTestSuite) TestAddSnapshotsVariant() {
	item, err := suite.service.Add(context.Background(), testShop, suite.conversation.ID, "gid://product/1", "gid://product/1/v2", 2)
	suite.Require().NoError(err)

	suite.Equal(2, item.Quantity)
	suite.Equal("Blue Shirt - Large", item.Title)
	suite.True(item.Price.Equal(decimal.RequireFromString("21.99")))
	suite.Equal("https://cdn.example.com/gid://product/1.jpg", item.ImageURL)
}

func (suite *CartServiceTestSuite) TestAddDefaultsQuantityToOne() {
	item, err := suite.service.Add(context.Background(), testShop, suite.conversation.ID, "gid://product/1", "gid://product/1/v1", 0)
	suite.Require().NoError(err)
	suite.Equal(1, item.Quantity)
}

func (suite *CartServiceTestSuite) TestAddUnknownVariant() {
	_, err := suite.service.Add(context.Background(), testShop, suite.conversation.ID, "gid://product/1", "gid://product/1/v99", 1)
	suite.True(apperrors.IsNotFound(err))

	_, err = suite.service.Add(context.Background(), testShop, suite.conversation.ID, "gid://product/99", "gid://product/99/v1", 1)
	suite.True(apperrors.IsNotFound(err))
}

func (suite *CartServiceTestSuite) TestRemoveIsIdempotent() {
	ctx := context.Background()
	item, err := suite.service.Add(ctx, testShop, suite.conversation.ID, "gid://product/1", "gid://product/1/v1", 1)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Remove(ctx, item.ID))
	suite.Require().NoError(suite.service.Remove(ctx, item.ID))
	suite.Require().NoError(suite.service.Remove(ctx, uuid.New()))

	items, err := suite.service.List(ctx, suite.conversation.ID)
	suite.Require().NoError(err)
	suite.Empty(items)
}

func (suite *CartServiceTestSuite) TestUpdateQuantity() {
	ctx := context.Background()
	item, err := suite.service.Add(ctx, testShop, suite.conversation.ID, "gid://product/1", "gid://product/1/v1", 1)
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateQuantity(ctx, item.ID, 4)
	suite.Require().NoError(err)
	suite.Equal(4, updated.Quantity)
	suite.True(updated.Price.Equal(item.Price), "price snapshot survives quantity changes")

	_, err = suite.service.UpdateQuantity(ctx, item.ID, 0)
	suite.True(apperrors.IsValidation(err))

	_, err = suite.service.UpdateQuantity(ctx, uuid.New(), 2)
	suite.True(apperrors.IsNotFound(err))
}

func (suite *CartServiceTestSuite) TestTotalRoundsHalfUp() {
	ctx := context.Background()

	items := []models.CartItem{
		{ConversationID: suite.conversation.ID, ProductID: "p", VariantID: "v1", Quantity: 2, Price: decimal.RequireFromString("19.99")},
		{ConversationID: suite.conversation.ID, ProductID: "p", VariantID: "v2", Quantity: 1, Price: decimal.RequireFromString("5.005")},
	}
	for i := range items {
		suite.Require().NoError(suite.db.Create(&items[i]).Error)
	}

	total, err := suite.service.Total(ctx, suite.conversation.ID)
	suite.Require().NoError(err)
	suite.Equal("44.99", total.StringFixed(2))
}

func (suite *CartServiceTestSuite) TestTotalEmptyCart() {
	total, err := suite.service.Total(context.Background(), suite.conversation.ID)
	suite.Require().NoError(err)
	suite.True(total.IsZero())
}

func (suite *CartServiceTestSuite) TestCheckoutHandsOffLines() {
	ctx := context.Background()
	_, err := suite.service.Add(ctx, testShop, suite.conversation.ID, "gid://product/1", "gid://product/1/v1", 2)
	suite.Require().NoError(err)

	source := &fakeCheckoutSource{cart: &storefront.Cart{
		ID:          "gid://cart/abc",
		CheckoutURL: "https://test-shop.example.com/checkout/abc",
	}}

	result, err := suite.service.Checkout(ctx, suite.conversation.ID, source)
	suite.Require().NoError(err)
	suite.Equal("gid://cart/abc", result.CartID)
	suite.Equal("https://test-shop.example.com/checkout/abc", result.CheckoutURL)

	suite.Require().Len(source.lines, 1)
	suite.Equal("gid://product/1/v1", source.lines[0].VariantID)
	suite.Equal(2, source.lines[0].Quantity)
}

func (suite *CartServiceTestSuite) TestCheckoutEmptyCart() {
	_, err := suite.service.Checkout(context.Background(), suite.conversation.ID, &fakeCheckoutSource{})
	suite.True(apperrors.IsValidation(err))
}

func (suite *CartServiceTestSuite) TestCheckoutUpstreamFailure() {
	ctx := context.Background()
	_, err := suite.service.Add(ctx, testShop, suite.conversation.ID, "gid://product/1", "gid://product/1/v1", 1)
	suite.Require().NoError(err)

	source := &fakeCheckoutSource{err: apperrors.Upstream("cart create rejected: lines.0: invalid variant", nil)}
	_, err = suite.service.Checkout(ctx, suite.conversation.ID, source)
	suite.True(apperrors.IsUpstream(err))
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
