package netx

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"tezBot/config"

	xproxy "golang.org/x/net/proxy"
)

// Универсальный клиент: обходит прокси для локалок, иначе SOCKS5.
func NewHTTPClient(p *config.ProxyConfig, timeout time.Duration) *http.Client {
	baseDialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		// Proxy не используем, чтобы не путать SOCKS с HTTP-прокси
		Proxy:             nil,
		ForceAttemptHTTP2: true,
		TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12},
		DialContext:       baseDialer.DialContext,
	}

	if p.Enabled() {
		tr.DialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				host = address
			}
			// локальные/приватные мимо прокси
			if !p.ShouldProxy(host) {
				return baseDialer.DialContext(ctx, network, address)
			}
			// SOCKS5 (удалённый резолв: оставляем hostname, не резолвим тут)
			d, err := xproxy.SOCKS5("tcp", p.SocksAddress(), nil, baseDialer)
			if err != nil {
				return nil, err
			}
			if cd, ok := d.(xproxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, address)
			}
			return d.Dial(network, address)
		}
	}

	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
}
