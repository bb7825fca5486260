package order

// Configuration is the order payload submitted by order entry. Field names follow the
// JSON produced by the order wizard.
type Configuration struct {
	CustomerInfo   CustomerInfo                  `json:"customerInfo"`
	SinkSelection  SinkSelection                 `json:"sinkSelection"`
	Configurations map[string]BuildConfiguration `json:"configurations" validate:"dive"`
	Accessories    map[string][]AccessoryItem    `json:"accessories" validate:"dive,dive"`
}

// CustomerInfo is carried through for reporting only.
type CustomerInfo struct {
	PONumber     string `json:"poNumber"`
	CustomerName string `json:"customerName"`
	ProjectName  string `json:"projectName,omitempty"`
	SalesPerson  string `json:"salesPerson,omitempty"`
	WantDate     string `json:"wantDate,omitempty"`
	Language     string `json:"language,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// SinkSelection names the model and the build numbers, one per unit.
type SinkSelection struct {
	SinkModelID  string   `json:"sinkModelId" validate:"required"`
	Quantity     int      `json:"quantity" validate:"gte=0"`
	BuildNumbers []string `json:"buildNumbers" validate:"required,min=1,dive,required"`
}

// BuildConfiguration holds the selections for one build number.
type BuildConfiguration struct {
	Width                  *float64      `json:"width" validate:"required"`
	Length                 *float64      `json:"length" validate:"required"`
	LegsTypeID             string        `json:"legsTypeId,omitempty"`
	FeetTypeID             string        `json:"feetTypeId,omitempty"`
	Pegboard               bool          `json:"pegboard"`
	PegboardTypeID         string        `json:"pegboardTypeId,omitempty"`
	PegboardColor          string        `json:"pegboardColor,omitempty"`
	DrawersAndCompartments []string      `json:"drawersAndCompartments,omitempty" validate:"dive,required"`
	Basins                 []BasinSpec   `json:"basins,omitempty" validate:"dive"`
	Faucets                []FaucetSpec  `json:"faucets,omitempty" validate:"dive"`
	Sprayers               []SprayerSpec `json:"sprayers,omitempty" validate:"dive"`
}

// CustomSizePartNumber marks a basin whose dimensions are given by the buyer.
const CustomSizePartNumber = "CUSTOM"

// BasinSpec selects one basin.
type BasinSpec struct {
	BasinTypeID         string   `json:"basinTypeId" validate:"required"`
	BasinSizePartNumber string   `json:"basinSizePartNumber" validate:"required"`
	CustomWidth         *float64 `json:"customWidth,omitempty"`
	CustomLength        *float64 `json:"customLength,omitempty"`
	CustomDepth         *float64 `json:"customDepth,omitempty"`
	AddonIDs            []string `json:"addonIds,omitempty" validate:"dive,required"`
}

// IsCustom reports whether the basin uses buyer-specified dimensions.
func (b BasinSpec) IsCustom() bool {
	return b.BasinSizePartNumber == CustomSizePartNumber
}

// FaucetSpec selects a faucet kit. A zero quantity means one.
type FaucetSpec struct {
	FaucetTypeID string `json:"faucetTypeId" validate:"required"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	Placement    string `json:"placement,omitempty"`
}

// SprayerSpec selects a sprayer kit. A zero quantity means one.
type SprayerSpec struct {
	SprayerTypeID string `json:"sprayerTypeId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"gte=0"`
	Location      string `json:"location,omitempty"`
}

// AccessoryItem is a per-build accessory line. A zero quantity means one.
type AccessoryItem struct {
	AssemblyID string `json:"assemblyId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=0"`
	Name       string `json:"name,omitempty"`
}

// Qty normalizes a requested quantity, treating zero as one.
func Qty(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}
