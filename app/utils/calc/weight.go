package calc

const gramsPerKg = 1000

// BillableWeightKg rounds a parcel weight up to whole kilograms with a 1 kg minimum.
func BillableWeightKg(weightGrams int) int64 {
	if weightGrams <= 0 {
		return 1
	}
	w := int64(weightGrams)
	kg := w / gramsPerKg
	if w%gramsPerKg != 0 {
		kg++
	}
	return kg
}
