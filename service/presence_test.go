package service

import "testing"

func Test_presence(t *testing.T) {
	var p presence

	if p.active("u1") {
		t.Error("active() = true before any connection")
	}

	p.connect("u1")
	p.connect("u1")
	p.disconnect("u1")

	if !p.active("u1") {
		t.Error("active() = false while one connection remains")
	}

	p.disconnect("u1")

	if p.active("u1") {
		t.Error("active() = true after last disconnect")
	}
}
