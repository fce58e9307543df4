package dataset

import "time"

// Commodities are the short names of the ten weekly price series, in the
// order they appear in the source table.
var Commodities = []string{
	"Beras",
	"Bawang Merah",
	"Bawang Putih",
	"Cabai Merah",
	"Cabai Rawit",
	"Daging Sapi",
	"Telur Ayam",
	"Daging Ayam",
	"Minyak Goreng",
	"Gula Pasir",
}

// CommodityRename maps the long source headers to Commodities.
var CommodityRename = map[string]string{
	"Komoditas (Rp)":                  "Tanggal",
	"Beras Kualitas Medium I":         "Beras",
	"Bawang Merah Ukuran Sedang":      "Bawang Merah",
	"Bawang Putih Ukuran Sedang":      "Bawang Putih",
	"Cabai Merah Keriting":            "Cabai Merah",
	"Cabai Rawit Merah":               "Cabai Rawit",
	"Daging Sapi Kualitas 1":          "Daging Sapi",
	"Telur Ayam Ras Segar":            "Telur Ayam",
	"Daging Ayam Ras Segar":           "Daging Ayam",
	"Minyak Goreng Kemasan Bermerk 1": "Minyak Goreng",
	"Gula Pasir Lokal":                "Gula Pasir",
}

// CommodityAnchor is the first day of week 1 in the price table.
var CommodityAnchor = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// CommodityOptions returns the read options of the national price table:
// the aggregate columns sharing a short name are dropped before the detailed
// columns are renamed onto them.
func CommodityOptions() ReadOptions {
	rename := make(map[string]string, len(CommodityRename))
	for k, v := range CommodityRename {
		rename[k] = v
	}

	return ReadOptions{
		DateColumn: "Tanggal",
		DateLayout: DefaultDateLayout,
		Drop:       append([]string(nil), Commodities...),
		Rename:     rename,
	}
}
