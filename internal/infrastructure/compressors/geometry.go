package compressors

import "math"

// FallbackSafetyMargin запас на нелинейную зависимость размера файла от площади
const FallbackSafetyMargin = 0.9

// FitInside вписывает размеры в квадрат maxDimension с сохранением пропорций.
// Изображение меньше границы не увеличивается.
func FitInside(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}

	if width >= height {
		h := int(math.Round(float64(height) * float64(maxDimension) / float64(width)))
		return maxDimension, atLeastOne(h)
	}

	w := int(math.Round(float64(width) * float64(maxDimension) / float64(height)))
	return atLeastOne(w), maxDimension
}

// ScaleFactor вычисляет линейный коэффициент уменьшения для попадания в бюджет
func ScaleFactor(maxBytes, sizeBytes int) float64 {
	if sizeBytes <= 0 {
		return 1
	}
	return math.Sqrt(float64(maxBytes)/float64(sizeBytes)) * FallbackSafetyMargin
}

// FallbackDimensions применяет коэффициент к размерам с округлением вниз
func FallbackDimensions(width, height int, factor float64) (int, int) {
	w := int(math.Floor(float64(width) * factor))
	h := int(math.Floor(float64(height) * factor))
	return atLeastOne(w), atLeastOne(h)
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
