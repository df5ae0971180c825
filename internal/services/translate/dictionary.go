// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package translate

// englishIndonesian is the last resort before the unavailable sentinel.
var englishIndonesian = map[string]string{
	"hello":         "halo",
	"hi":            "hai",
	"good morning":  "selamat pagi",
	"good night":    "selamat malam",
	"goodbye":       "selamat tinggal",
	"thank you":     "terima kasih",
	"thanks":        "terima kasih",
	"please":        "tolong",
	"sorry":         "maaf",
	"yes":           "ya",
	"no":            "tidak",
	"water":         "air",
	"food":          "makanan",
	"house":         "rumah",
	"book":          "buku",
	"friend":        "teman",
	"love":          "cinta",
	"cat":           "kucing",
	"dog":           "anjing",
	"school":        "sekolah",
	"teacher":       "guru",
	"student":       "murid",
	"eat":           "makan",
	"drink":         "minum",
	"sleep":         "tidur",
	"beautiful":     "cantik",
	"big":           "besar",
	"small":         "kecil",
	"how are you":   "apa kabar",
	"good":          "baik",
	"welcome":       "selamat datang",
	"excuse me":     "permisi",
	"see you later": "sampai jumpa",
}

var indonesianEnglish = invert(englishIndonesian)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		// shared Indonesian entries keep the lexically smallest English key
		if existing, ok := out[v]; !ok || k < existing {
			out[v] = k
		}
	}
	return out
}

func lookup(from, to, text string) (string, bool) {
	var table map[string]string
	switch {
	case from == "en" && to == "id":
		table = englishIndonesian
	case from == "id" && to == "en":
		table = indonesianEnglish
	default:
		return "", false
	}
	word, ok := table[text]
	return word, ok
}
