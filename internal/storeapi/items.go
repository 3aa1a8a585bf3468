package storeapi

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/tomatostore/grocer/internal/domain"
	"github.com/tomatostore/grocer/internal/webserver"
	"github.com/tomatostore/grocer/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type itemPayload struct {
	Name         string  `json:"name" form:"name" validate:"required,min=1,max=200"`
	Description  string  `json:"description" form:"description" validate:"omitempty,max=1024"`
	ImageID      string  `json:"imageID" form:"imageID"`
	Price        *int64  `json:"itemPrice" form:"itemPrice" validate:"required,gte=0"`
	Quantity     *int    `json:"itemQuantity" form:"itemQuantity" validate:"required,gte=0"`
	DiscountCode *string `json:"discountCode" form:"discountCode"`
	OnSale       bool    `json:"isOnSale" form:"isOnSale"`
}

// itemCSV is the catalog export row shape.
type itemCSV struct {
	ID           int64  `csv:"item_id"`
	Name         string `csv:"name"`
	Description  string `csv:"description"`
	PriceCents   int64  `csv:"price_cents"`
	Quantity     int    `csv:"quantity"`
	DiscountCode string `csv:"discount_code"`
	OnSale       bool   `csv:"on_sale"`
}

// registerItemRoutes registers catalog endpoints. Reads are public, the
// way the storefront consumes them; mutations require a token.
func registerItemRoutes() {
	webserver.PubGET("/items", listItems)
	webserver.PubGET("/items/:id", getItem)
	webserver.PubGET("/images/:id", getImage)
	webserver.ApiPOST("/items", createItem)
	webserver.ApiPUT("/items/:id", updateItem)
	webserver.ApiDELETE("/items/:id", deleteItem)
	webserver.ApiGET("/items/export", exportItems)
}

// itemSortColumns whitelists sortable columns to avoid SQL injection.
var itemSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"quantity":   "quantity",
	"time":       "created_at",
	"created_at": "created_at",
	"id":         "id",
}

// listItems returns the catalog as a JSON array. Filtering and ordering
// are applied server-side from search/sort/order query parameters;
// pagination is deliberately left to the client.
func listItems(c echo.Context) error {
	db := GetDB(c).Model(&domain.Item{})

	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ?", "%"+search+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
	}

	sortCol := itemSortColumns[strings.TrimSpace(c.QueryParam("sort"))]
	if sortCol == "" {
		sortCol = "id"
	}
	order := "ASC"
	if strings.EqualFold(strings.TrimSpace(c.QueryParam("order")), "desc") {
		order = "DESC"
	}

	items := make([]domain.Item, 0)
	if err := db.Order(sortCol + " " + order).Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query items", err.Error())
	}
	return ok(c, items)
}

func getItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}

	var item domain.Item
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query item", err.Error())
	}
	return ok(c, item)
}

func createItem(c echo.Context) error {
	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	now := time.Now()
	item := domain.Item{
		ID:           common.UUIDint64(),
		Name:         strings.TrimSpace(payload.Name),
		Description:  payload.Description,
		ImageID:      strings.TrimSpace(payload.ImageID),
		Price:        *payload.Price,
		Quantity:     *payload.Quantity,
		DiscountCode: payload.DiscountCode,
		OnSale:       payload.OnSale,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := GetDB(c).Create(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create item", err.Error())
	}
	return created(c, item)
}

// updateItem accepts either a JSON body or a multipart form carrying an
// image file alongside the item fields.
func updateItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}

	var item domain.Item
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query item", err.Error())
	}

	var payload itemPayload
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	multipart := strings.HasPrefix(contentType, echo.MIMEMultipartForm)
	if multipart {
		payload = itemPayload{
			Name:        strings.TrimSpace(c.FormValue("name")),
			Description: c.FormValue("description"),
			ImageID:     strings.TrimSpace(c.FormValue("imageID")),
			OnSale:      cast.ToBool(c.FormValue("isOnSale")),
		}
		price := cast.ToInt64(c.FormValue("itemPrice"))
		quantity := cast.ToInt(c.FormValue("itemQuantity"))
		payload.Price = &price
		payload.Quantity = &quantity
		if dc := c.FormValue("discountCode"); dc != "" {
			payload.DiscountCode = &dc
		}
	} else {
		if err := c.Bind(&payload); err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item parameters", nil)
		}
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	if multipart {
		imageID, err := storeUploadedImage(c)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_IMAGE", "Unable to store uploaded image", err.Error())
		}
		if imageID != "" {
			payload.ImageID = imageID
		}
	}

	item.Name = strings.TrimSpace(payload.Name)
	item.Description = payload.Description
	item.ImageID = payload.ImageID
	item.Price = *payload.Price
	item.Quantity = *payload.Quantity
	item.DiscountCode = payload.DiscountCode
	item.OnSale = payload.OnSale
	item.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update item", err.Error())
	}
	return ok(c, item)
}

func deleteItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Item{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete item", err.Error())
	}
	zap.L().Info("item deleted", zap.Int64("id", id), zap.String("opr", currentOprName(c)))
	return ok(c, map[string]interface{}{"id": id})
}

// exportItems dumps the full catalog as CSV.
func exportItems(c echo.Context) error {
	var items []domain.Item
	if err := GetDB(c).Order("id ASC").Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query items", err.Error())
	}

	rows := make([]itemCSV, 0, len(items))
	for _, item := range items {
		discount := ""
		if item.DiscountCode != nil {
			discount = *item.DiscountCode
		}
		rows = append(rows, itemCSV{
			ID:           item.ID,
			Name:         item.Name,
			Description:  item.Description,
			PriceCents:   item.Price,
			Quantity:     item.Quantity,
			DiscountCode: discount,
			OnSale:       item.OnSale,
		})
	}

	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export items", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="items.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}

// storeUploadedImage writes the multipart "image" file under the workdir
// and returns the generated image ID. Missing file is not an error.
func storeUploadedImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	imageID := common.UUID() + filepath.Ext(file.Filename)
	target := filepath.Join(imagesDir(c), imageID)
	dst, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := dst.ReadFrom(src); err != nil {
		return "", err
	}
	return imageID, nil
}

func imagesDir(c echo.Context) string {
	return filepath.Join(GetApp(c).Config().System.Workdir, "images")
}

// getImage serves a stored item image by its opaque ID.
func getImage(c echo.Context) error {
	imageID := filepath.Base(c.Param("id"))
	path := filepath.Join(imagesDir(c), imageID)
	if _, err := os.Stat(path); err != nil {
		return fail(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found", nil)
	}
	return c.File(path)
}
