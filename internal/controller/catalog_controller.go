package controller

import (
	"github.com/gofiber/fiber/v2"

	"automatehub_backend/pkg/catalog"
)

// productCatalog is injected at boot so a fixture catalog can stand in
// during tests instead of a process-global parsed-once blob.
var productCatalog *catalog.Catalog

func InitCatalogController(cat *catalog.Catalog) {
	productCatalog = cat
}

func ListProducts(c *fiber.Ctx) error {
	return c.JSON(productCatalog.Products())
}

func ListUpsells(c *fiber.Ctx) error {
	return c.JSON(productCatalog.Upsells())
}

func GetProduct(c *fiber.Ctx) error {
	id := c.Params("product_id")
	product, ok := productCatalog.Product(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}
	return c.JSON(product)
}
