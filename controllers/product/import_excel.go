package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// POST /admin/products/import-excel
//
// Accepts a workbook in the export layout (ID, Name, Slug, Description,
// PriceCents, Currency, Stock, SKU, Active, Views, CategoryIDs, ...).
// Rows with an ID update the existing product; rows without one insert.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			slug := get(2)
			description := get(3)
			priceCents, priceErr := strconv.ParseInt(get(4), 10, 64)
			currency := get(5)
			stock, _ := strconv.Atoi(get(6))
			sku := get(7)
			active := !strings.EqualFold(get(8), "false")
			categoryIDStr := get(10)

			if name == "" || slug == "" || priceErr != nil || priceCents < 0 {
				skippedCount++
				continue
			}
			if currency == "" {
				currency = "COP"
			}

			var categories []models.Category
			if categoryIDStr != "" {
				var ids []uint
				for _, part := range strings.Split(categoryIDStr, ",") {
					if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
						ids = append(ids, uint(id))
					}
				}
				if len(ids) > 0 {
					if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
						skippedCount++
						continue
					}
				}
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					var existing models.Product
					if err := db.First(&existing, id).Error; err == nil {
						existing.Name = name
						existing.Slug = slug
						existing.Description = description
						existing.PriceCents = priceCents
						existing.Currency = currency
						existing.Stock = stock
						existing.SKU = sku
						existing.Active = active

						if err := db.Model(&existing).Association("Categories").Replace(categories); err != nil {
							skippedCount++
							continue
						}
						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							continue
						}
						skippedCount++
						continue
					}
				}
			}

			product := models.Product{
				Name:        name,
				Slug:        slug,
				Description: description,
				PriceCents:  priceCents,
				Currency:    currency,
				Stock:       stock,
				SKU:         sku,
				Active:      active,
				Categories:  categories,
			}
			if err := db.Create(&product).Error; err == nil {
				// The column default is true; an explicit false needs its
				// own write.
				if !active {
					db.Model(&product).Update("active", false)
				}
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
