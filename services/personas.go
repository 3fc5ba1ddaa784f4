package services

import (
	"log"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Persona набор параметров, которыми yt-dlp представляется конкретным клиентом площадки
type Persona struct {
	Name         string
	PlayerClient string
	UserAgent    string
}

// Apply передаёт параметры персоны в команду yt-dlp
func (p Persona) Apply(cmd *ytdlp.Command) *ytdlp.Command {
	cmd.ExtractorArgs("youtube:player_client=" + p.PlayerClient)
	if p.UserAgent != "" {
		cmd.UserAgent(p.UserAgent)
	}
	return cmd
}

var knownPersonas = map[string]Persona{
	"android": {
		Name:         "android",
		PlayerClient: "android",
		UserAgent:    "com.google.android.youtube/19.44.38 (Linux; U; Android 14) gzip",
	},
	"ios": {
		Name:         "ios",
		PlayerClient: "ios",
		UserAgent:    "com.google.ios.youtube/19.45.4 (iPhone16,2; U; CPU iOS 18_1_0 like Mac OS X;)",
	},
	"web": {
		Name:         "web",
		PlayerClient: "web",
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	},
	"tv": {
		Name:         "tv",
		PlayerClient: "tv_embedded",
	},
}

// DefaultPersonas порядок по умолчанию: мобильные клиенты, затем браузер
func DefaultPersonas() []Persona {
	return ResolvePersonas([]string{"android", "ios", "web"})
}

// ResolvePersonas превращает имена из конфигурации в персоны, сохраняя порядок
func ResolvePersonas(names []string) []Persona {
	personas := make([]Persona, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		p, ok := knownPersonas[name]
		if !ok {
			log.Printf("⚠️ Неизвестная персона %q пропущена", name)
			continue
		}
		seen[name] = true
		personas = append(personas, p)
	}
	return personas
}
