package schema

// Sheet names. They match the documents the business already keeps, so an
// existing file opens without migration.
const (
	Suppliers        = "Proveedores"
	Products         = "Productos"
	SupplierProducts = "ProveedorProductos"
	Settings         = "Configuraciones"
	Sales            = "Ventas"
	SaleItems        = "VentaItems"
)

// Supplier columns.
const (
	SupplierID      = "id_proveedor"
	SupplierName    = "nombre"
	SupplierTaxID   = "cuit"
	SupplierPhone   = "telefono"
	SupplierEmail   = "email"
	SupplierAddress = "direccion"
	SupplierNotes   = "notas"
)

// Product columns.
const (
	ProductID                  = "id"
	ProductBaseName            = "nombre_base"
	ProductVariant             = "variante"
	ProductInternalCode        = "codigo_interno"
	ProductPurchaseUnit        = "unidad_compra"
	ProductQtyPerPurchaseUnit  = "cant_por_unidad_compra"
	ProductSaleUnit            = "unidad_venta"
	ProductAllowsFraction      = "permite_fraccion"
	ProductAllowsWhole         = "permite_entero"
	ProductUseCostAsSalePrice  = "usar_precio_como_venta"
	ProductCostPerPurchaseUnit = "precio_compra_por_unidad_compra"
)

// SupplierProduct columns.
const (
	LinkSupplierID          = "id_proveedor"
	LinkProductID           = "id_producto"
	LinkPurchaseUnit        = "unidad_compra"
	LinkQtyPerPurchaseUnit  = "cant_por_unidad_compra"
	LinkCostPerPurchaseUnit = "precio_compra_por_unidad_compra"
	LinkLastUpdated         = "ultima_actualizacion"
)

func init() {
	registerAll()
}

func registerAll() {
	Register(Table{
		Name:    Suppliers,
		Columns: []string{SupplierID, SupplierName, SupplierTaxID, SupplierPhone, SupplierEmail, SupplierAddress, SupplierNotes},
	})
	Register(Table{
		Name: Products,
		Columns: []string{
			ProductID, ProductBaseName, ProductVariant, ProductInternalCode,
			ProductPurchaseUnit, ProductQtyPerPurchaseUnit,
			ProductSaleUnit, ProductAllowsFraction, ProductAllowsWhole,
			ProductUseCostAsSalePrice, ProductCostPerPurchaseUnit,
		},
	})
	Register(Table{
		Name: SupplierProducts,
		Columns: []string{
			LinkSupplierID, LinkProductID,
			LinkPurchaseUnit, LinkQtyPerPurchaseUnit,
			LinkCostPerPurchaseUnit, LinkLastUpdated,
		},
	})
	Register(Table{
		Name:    Settings,
		Columns: []string{"clave", "valor", "updated_at"},
	})
	Register(Table{
		Name:    Sales,
		Columns: []string{"id_venta", "fecha_hora", "medio_pago", "estado_pago", "pagado_con", "fecha_pago", "cliente", "total", "notas"},
	})
	Register(Table{
		Name:    SaleItems,
		Columns: []string{"id_venta", "id_producto", "nombre_producto", "modo", "unidad_venta", "cantidad", "precio_unitario", "subtotal"},
	})
}
