package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wellflow/internal/api/models"
	"wellflow/internal/config"
	"wellflow/internal/provider"
)

// ListProviders handles GET /api/v1/providers
func ListProviders(c *gin.Context) {
	kinds := provider.Kinds()
	out := make([]models.ProviderInfo, 0, len(kinds))
	for _, k := range kinds {
		info := models.ProviderInfo{
			Kind:        string(k.Kind),
			Description: k.Description,
			NeedsTable:  k.NeedsTable,
		}
		if k.NeedsTable {
			info.Parameters = append(info.Parameters,
				models.ParameterInfo{
					Name:        "rows",
					Type:        "array",
					Description: "Inline PVT table; when absent a table is generated from the fluid",
				},
				models.ParameterInfo{
					Name:        "table_range",
					Type:        "object",
					Description: "Pressure range of the generated table (from, to, step in psia)",
					Default:     config.TableRange{From: config.DefaultTableFrom, To: config.DefaultTableTo, Step: config.DefaultTableStep},
				},
			)
		}
		if k.Kind == provider.KindNearest {
			info.Parameters = append(info.Parameters, models.ParameterInfo{
				Name:        "tolerance_psia",
				Type:        "float",
				Description: "Largest accepted distance to the closest row",
				Default:     0.0,
			})
		}
		info.Parameters = append(info.Parameters, models.ParameterInfo{
			Name:        "cache",
			Type:        "bool",
			Description: "Memoize resolved samples by rounded pressure",
			Default:     false,
		})
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"providers": out})
}
