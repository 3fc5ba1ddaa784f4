package config

import (
	"net"
	"strings"
)

// ProxyConfig содержит настройки прокси
type ProxyConfig struct {
	UseProxy bool     `envconfig:"USE_PROXY" default:"false"`
	ProxyURL string   `envconfig:"PROXY_URL" default:"socks5h://127.0.0.1:1080"`
	NoProxy  []string `envconfig:"NO_PROXY" default:"localhost,127.0.0.1,172.16.0.0/12,192.168.0.0/16"`
}

func (p *ProxyConfig) normalize() {
	p.ProxyURL = strings.TrimSpace(p.ProxyURL)
	cleaned := p.NoProxy[:0]
	for _, token := range p.NoProxy {
		token = strings.TrimSpace(strings.ToLower(token))
		if token != "" {
			cleaned = append(cleaned, token)
		}
	}
	p.NoProxy = cleaned
}

// Enabled сообщает, настроен ли прокси
func (p *ProxyConfig) Enabled() bool {
	return p != nil && p.UseProxy && p.ProxyURL != ""
}

// SocksAddress возвращает host:port SOCKS5 прокси без схемы
func (p *ProxyConfig) SocksAddress() string {
	return strings.TrimPrefix(strings.TrimPrefix(p.ProxyURL, "socks5h://"), "socks5://")
}

// YtDlpProxy адрес прокси для yt-dlp, пустая строка если прокси выключен
func (p *ProxyConfig) YtDlpProxy() string {
	if !p.Enabled() {
		return ""
	}
	return p.ProxyURL
}

// ShouldProxy проверяет, нужно ли проксировать указанный хост.
// Локальные и приватные адреса всегда идут напрямую.
func (p *ProxyConfig) ShouldProxy(host string) bool {
	if !p.Enabled() {
		return false
	}

	host = strings.ToLower(host)
	ip := net.ParseIP(host)
	for _, token := range p.NoProxy {
		// точные хосты/домены
		if host == token || strings.HasSuffix(host, "."+token) {
			return false
		}
		// простые маски по подсетям
		if ip != nil {
			if _, cidr, err := net.ParseCIDR(token); err == nil && cidr.Contains(ip) {
				return false
			}
		}
	}
	// дефолтные локальные
	if ip != nil && (ip.IsLoopback() || ip.IsPrivate()) {
		return false
	}
	return host != "localhost"
}
