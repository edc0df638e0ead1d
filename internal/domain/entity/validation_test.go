package entity

import (
	"errors"
	"net"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://example.com/news/1", wantErr: false},
		{name: "valid http URL", url: "http://example.com/a1", wantErr: false},
		{name: "valid URL with port", url: "https://example.com:8080/a", wantErr: false},
		{name: "valid URL with query", url: "https://example.com/a?id=1", wantErr: false},
		{name: "short host", url: "https://x/a1", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/a", wantErr: true},
		{name: "invalid scheme - javascript", url: "javascript:alert(1)", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "malformed URL", url: "ht!tp://example.com", wantErr: true},
		{name: "no scheme", url: "example.com", wantErr: true},
		{name: "URL exceeding maximum length", url: "https://example.com/" + strings.Repeat("a", 2050), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestValidateOutboundURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "public literal IP", url: "http://8.8.8.8/article", wantErr: false},
		{name: "loopback", url: "http://127.0.0.1/feed", wantErr: true},
		{name: "private 10.x", url: "http://10.0.0.1/feed", wantErr: true},
		{name: "private 192.168.x", url: "http://192.168.1.1/feed", wantErr: true},
		{name: "private 172.16.x", url: "http://172.16.0.1/feed", wantErr: true},
		{name: "cloud metadata", url: "http://169.254.169.254/latest/meta-data", wantErr: true},
		{name: "IPv6 loopback", url: "http://[::1]/feed", wantErr: true},
		{name: "invalid scheme", url: "file:///etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutboundURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutboundURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip        string
		isPrivate bool
	}{
		{ip: "127.0.0.1", isPrivate: true},
		{ip: "::1", isPrivate: true},
		{ip: "169.254.169.254", isPrivate: true},
		{ip: "fe80::1", isPrivate: true},
		{ip: "10.123.45.67", isPrivate: true},
		{ip: "172.31.255.255", isPrivate: true},
		{ip: "192.168.0.1", isPrivate: true},
		{ip: "0.0.0.0", isPrivate: true},
		{ip: "8.8.8.8", isPrivate: false},
		{ip: "172.32.0.1", isPrivate: false},
		{ip: "2001:4860:4860::8888", isPrivate: false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := isPrivateIP(net.ParseIP(tt.ip)); got != tt.isPrivate {
				t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.isPrivate)
			}
		})
	}
}

func TestNormalizeGroupName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "trimmed", in: "  Topic A  ", want: "Topic A"},
		{name: "kept as is", in: "Women's T20 World Cup 2024", want: "Women's T20 World Cup 2024"},
		{name: "empty", in: "", wantErr: true},
		{name: "whitespace only", in: "   ", wantErr: true},
		{name: "too long", in: strings.Repeat("g", 256), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeGroupName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeGroupName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeGroupName() = %q, want %q", got, tt.want)
			}
		})
	}
}
