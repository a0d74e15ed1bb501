package service

import (
	"fmt"
	"strings"

	"github.com/riodino14/edupulse-backend/internal/dto"
)

const (
	maxVideosPerKeyword = 2
	curatedVideoType    = "Specific_Video"
)

// curatedVideo maps a topic keyword to hand-picked YouTube ids.
type curatedVideo struct {
	Keyword  string
	VideoIDs []string
}

// videoCatalog is matched in order; the first keyword contained in a topic wins.
var videoCatalog = []curatedVideo{
	{Keyword: "Proposisi", VideoIDs: []string{"U5eWAywK1Mo"}},
	{Keyword: "Predikat", VideoIDs: []string{"XY5koUZMV2Q", "sDkqHWixI30"}},
	{Keyword: "Pemrograman Logika", VideoIDs: []string{"gxIMC0rBeno"}},
	{Keyword: "Matematika SMA", VideoIDs: []string{"4XPmXP2LtX4"}},
	{Keyword: "Pembuktian", VideoIDs: []string{"2FI9CaBkrQg", "O53d4eU2YR0"}},
	{Keyword: "Induksi", VideoIDs: []string{"eV-r_EnD7ec", "tHNVX3e9zd0", "ptivxK4duyk"}},
	{Keyword: "Himpunan", VideoIDs: []string{"iWxbTkL1XUg", "2Jnop1XF9I0"}},
	{Keyword: "Relasi", VideoIDs: []string{"2EXkd9booXE", "79DUDA-EGH0", "RPA3NYn9syE"}},
	{Keyword: "Fungsi", VideoIDs: []string{"EWe3_gkQ1DY", "MXiD6i4G8sg"}},
	{Keyword: "Rekurensi", VideoIDs: []string{"Z9s-Q664ORU", "gI4sv5wB_Ck"}},
	{Keyword: "Berhitung", VideoIDs: []string{"aHry-lRSEpE", "eRPCRoBiFxA"}},
	{Keyword: "Sarang Merpati", VideoIDs: []string{"Y1SyrMEO-HA"}},
	{Keyword: "Permutasi", VideoIDs: []string{"OzNqLkWzerw", "YG835TfQPPY"}},
	{Keyword: "Kombinasi", VideoIDs: []string{"OzNqLkWzerw"}},
	{Keyword: "Graf", VideoIDs: []string{"DkL3EoRgeq4", "p4r7GPAZaLs", "YOKyNy4mjd0", "Xqevm8rGY_A", "5-LN8GdJ2qE"}},
	{Keyword: "Pohon", VideoIDs: []string{"_PYAYCQo8mk", "MaQZ4Ws9hBY", "qC8GcUkuX0A"}},
	{Keyword: "Teori Bilangan", VideoIDs: []string{"egJvN0asZvI", "CJ7Fr3Zb5UQ", "oBoBwuO2xGs"}},
}

// CuratedVideos returns at most two videos for the first catalog keyword
// found in the topic, matched case-insensitively.
func CuratedVideos(topic string) []dto.VideoResponse {
	lowered := strings.ToLower(topic)
	for _, entry := range videoCatalog {
		if !strings.Contains(lowered, strings.ToLower(entry.Keyword)) {
			continue
		}

		ids := entry.VideoIDs
		if len(ids) > maxVideosPerKeyword {
			ids = ids[:maxVideosPerKeyword]
		}
		videos := make([]dto.VideoResponse, 0, len(ids))
		for _, id := range ids {
			videos = append(videos, dto.VideoResponse{
				Title:     fmt.Sprintf("Curated video: %s", entry.Keyword),
				Type:      curatedVideoType,
				URL:       "https://www.youtube.com/watch?v=" + id,
				Thumbnail: fmt.Sprintf("https://img.youtube.com/vi/%s/0.jpg", id),
				VideoID:   id,
			})
		}
		return videos
	}
	return nil
}
