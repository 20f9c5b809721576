// Package search contiene la normalización de texto usada por la búsqueda y las sugerencias:
// plegado de ancho completo a medio ancho, plegado hiragana/katakana y puntuación de coincidencias.
// Funciones puras, sin E/S.
package search

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	fullwidthOffset  = 0xFEE0 // 'Ａ' (U+FF21) - 'A' (U+0041)
	kanaOffset       = 0x60   // 'ア' (U+30A2) - 'あ' (U+3042)
	ideographicSpace = '　'
)

// Letras y dígitos latinos de ancho completo (Ａ-Ｚ, ａ-ｚ, ０-９) y el espacio ideográfico.
var fullwidthAlnum = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x3000, Stride: 1},
		{Lo: 0xFF10, Hi: 0xFF19, Stride: 1},
		{Lo: 0xFF21, Hi: 0xFF3A, Stride: 1},
		{Lo: 0xFF41, Hi: 0xFF5A, Stride: 1},
	},
}

var hiraganaBlock = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x3041, Hi: 0x3096, Stride: 1}},
}

var katakanaBlock = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x30A1, Hi: 0x30F6, Stride: 1}},
}

// Los transformadores de runes.If guardan estado: se construyen en cada llamada.
func narrowAlnum() transform.Transformer {
	return runes.If(runes.In(fullwidthAlnum), runes.Map(func(r rune) rune {
		if r == ideographicSpace {
			return ' '
		}
		return r - fullwidthOffset
	}), nil)
}

func shiftBlock(block *unicode.RangeTable, delta rune) transform.Transformer {
	return runes.If(runes.In(block), runes.Map(func(r rune) rune { return r + delta }), nil)
}

func apply(t transform.Transformer, s string) string {
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeSearchQuery pasa letras/dígitos de ancho completo a medio ancho, el espacio ideográfico
// a espacio normal, colapsa secuencias de espacios y recorta los extremos.
func NormalizeSearchQuery(s string) string {
	return strings.Join(strings.Fields(apply(narrowAlnum(), s)), " ")
}

// HiraganaToKatakana desplaza +0x60 los caracteres del bloque U+3041–U+3096.
func HiraganaToKatakana(s string) string {
	return apply(shiftBlock(hiraganaBlock, kanaOffset), s)
}

// KatakanaToHiragana desplaza −0x60 los caracteres del bloque U+30A1–U+30F6.
func KatakanaToHiragana(s string) string {
	return apply(shiftBlock(katakanaBlock, -kanaOffset), s)
}

// GenerateSearchPatterns devuelve {normalizada, en katakana, en hiragana} sin repetidos,
// para que una consulta escrita en un silabario encuentre texto guardado en el otro.
func GenerateSearchPatterns(query string) []string {
	normalized := NormalizeSearchQuery(query)
	if normalized == "" {
		return []string{}
	}
	candidates := []string{normalized, HiraganaToKatakana(normalized), KatakanaToHiragana(normalized)}
	patterns := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, p := range candidates {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		patterns = append(patterns, p)
	}
	return patterns
}

// CalculateSearchScore puntúa la coincidencia de query en text:
// 100 igualdad exacta, 80 subcadena, y si no, 50/n por cada token de la consulta
// contenido en algún token del texto (máximo 70). 0 si alguno está vacío.
// La parte por tokens no se redondea: 1 de 3 tokens puntúa 50/3.
func CalculateSearchScore(text, query string) float64 {
	t := strings.ToLower(NormalizeSearchQuery(text))
	q := strings.ToLower(NormalizeSearchQuery(query))
	if t == "" || q == "" {
		return 0
	}
	if t == q {
		return 100
	}
	if strings.Contains(t, q) {
		return 80
	}

	queryTokens := strings.Fields(q)
	textTokens := strings.Fields(t)
	var score float64
	for _, qt := range queryTokens {
		for _, tt := range textTokens {
			if strings.Contains(tt, qt) {
				score += 50 / float64(len(queryTokens))
				break
			}
		}
	}
	return math.Min(score, 70)
}

// BestSearchScore es la mejor puntuación de text contra cada patrón de query.
func BestSearchScore(text, query string) float64 {
	var best float64
	for _, p := range GenerateSearchPatterns(query) {
		if s := CalculateSearchScore(text, p); s > best {
			best = s
		}
	}
	return best
}

// SearchTokens palabras sueltas de los patrones, sin repetidos. Vacío si ningún patrón
// tiene más de una palabra: en ese caso la frase ya es el único término útil.
func SearchTokens(patterns []string) []string {
	tokens := []string{}
	seen := make(map[string]struct{})
	for _, p := range patterns {
		fields := strings.Fields(p)
		if len(fields) < 2 {
			continue
		}
		for _, f := range fields {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			tokens = append(tokens, f)
		}
	}
	return tokens
}
