package config

// ColumnAliases lists, per logical field, the header fragments accepted for
// that field in priority order.
type ColumnAliases struct {
	Description     []string `yaml:"description" envconfig:"DESCRIPTION" validate:"min=1,dive,required"`
	DeclaredContent []string `yaml:"declared_content" envconfig:"DECLARED_CONTENT" validate:"min=1,dive,required"`
	Price           []string `yaml:"price" envconfig:"PRICE" validate:"min=1,dive,required"`
	Category        []string `yaml:"category" envconfig:"CATEGORY" validate:"min=1,dive,required"`
	SalesVolume     []string `yaml:"sales_volume" envconfig:"SALES_VOLUME" validate:"dive,required"`
	JoinKey         []string `yaml:"join_key" envconfig:"JOIN_KEY" validate:"dive,required"`
}

// DefaultColumnAliases returns the header names used by the Spanish and
// Portuguese catalog exports the tool was built for.
func DefaultColumnAliases() ColumnAliases {
	return ColumnAliases{
		Description:     []string{"Descripcion", "PROD_NOMBRE_ORIGINAL", "Nome SKU"},
		DeclaredContent: []string{"Contenido", "Qtd Conteúdo SKU"},
		Price:           []string{"Precio KG/LT", "Preço convertido kg/lt R$", "Preço kg/lt"},
		Category:        []string{"Est Mer 7 (Subcategoria)", "NIVEL1"},
		SalesVolume:     []string{"Imp Vta (Ult.24 Meses)", "Vendas em volume"},
		JoinKey:         []string{"EAN", "Cod Barras", "Codigo de Barras", "GTIN"},
	}
}
