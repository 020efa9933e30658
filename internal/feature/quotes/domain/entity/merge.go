package entity

// Multiply combines two ascending series into one holding only the dates
// present in both, with each close equal to the product of the two inputs.
//
// Both inputs must be sorted ascending by date. The walk is a single pass
// with one cursor per series.
func Multiply(a, b Series) Series {
	out := make(Series, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Date == b[j].Date:
			out = append(out, Point{Date: a[i].Date, Close: a[i].Close * b[j].Close})
			i++
			j++
		case a[i].Date < b[j].Date:
			i++
		default:
			j++
		}
	}
	return out
}

// MultiplyAll folds Multiply over series from left to right.
// A single series is returned unchanged; no series yields an empty result.
func MultiplyAll(series ...Series) Series {
	if len(series) == 0 {
		return Series{}
	}
	acc := series[0]
	for _, s := range series[1:] {
		acc = Multiply(acc, s)
	}
	if acc == nil {
		return Series{}
	}
	return acc
}
