package entities

// VendorID identifies a raw-material vendor
type VendorID string

// AllVendorsLabel is the option label that stands for every known vendor
const AllVendorsLabel = "All Vendors"

// Known vendors in display order
const (
	VendorA VendorID = "Vendor A"
	VendorB VendorID = "Vendor B"
	VendorC VendorID = "Vendor C"
	VendorD VendorID = "Vendor D"
	VendorE VendorID = "Vendor E"
)

// Vendors returns the fixed vendor list in display order
func Vendors() []VendorID {
	return []VendorID{VendorA, VendorB, VendorC, VendorD, VendorE}
}

// IsKnownVendor reports whether id belongs to the fixed vendor list
func IsKnownVendor(id VendorID) bool {
	for _, v := range Vendors() {
		if v == id {
			return true
		}
	}
	return false
}
