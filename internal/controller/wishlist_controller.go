package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"automatehub_backend/internal/model"
	"automatehub_backend/pkg/database"
	"automatehub_backend/pkg/utils/jwt"
)

type WishlistInput struct {
	ProductID string `json:"product_id" validate:"required"`
}

func GetWishlist(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var items []model.WishlistItem
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Order("created_at desc").Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch wishlist",
		})
	}

	return c.JSON(items)
}

func AddWishlistItem(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(WishlistInput)
	if err := c.BodyParser(input); err != nil || input.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	product, ok := productCatalog.Product(input.ProductID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	var existing model.WishlistItem
	err := database.GetDB().Where("user_id = ? AND product_id = ?", claims.UserID, product.ID).
		First(&existing).Error
	if err == nil {
		return c.JSON(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update wishlist",
		})
	}

	item := model.WishlistItem{
		UserID:    claims.UserID,
		ProductID: product.ID,
		Name:      product.Name,
		Thumbnail: product.Thumbnail,
	}
	if err := database.GetDB().Create(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update wishlist",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func RemoveWishlistItem(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	if err := database.GetDB().
		Where("user_id = ? AND product_id = ?", claims.UserID, c.Params("product_id")).
		Delete(&model.WishlistItem{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove wishlist item",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
