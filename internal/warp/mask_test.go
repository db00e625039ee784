// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package warp

import (
	"sync"
	"testing"
)

func TestBitPlaneAbsentIsValid(t *testing.T) {
	var p BitPlane
	for i := 0; i < 100; i++ {
		if !p.IsValid(i) {
			t.Errorf("absent plane should report valid for index %d", i)
		}
	}
}

func TestBitPlaneSetAndIsValid(t *testing.T) {
	p := make(BitPlane, BitPlaneWords(64))
	if p.IsValid(5) {
		t.Error("bit 5 should start unset")
	}
	p.SetValid(5)
	if !p.IsValid(5) {
		t.Error("bit 5 should be set")
	}
	if p.IsValid(4) || p.IsValid(6) {
		t.Error("neighboring bits must stay unset")
	}
}

// TestBitPlaneIsBitwiseNotLogical guards against the logical-AND bug called
// out in the source: a nonzero word must not make every bit in it "valid".
func TestBitPlaneIsBitwiseNotLogical(t *testing.T) {
	p := BitPlane{0x00000002} // only bit 1 set
	if p.IsValid(0) {
		t.Error("bit 0 must be unset even though the word is nonzero")
	}
	if !p.IsValid(1) {
		t.Error("bit 1 must be set")
	}
	if p.IsValid(2) {
		t.Error("bit 2 must be unset")
	}
}

func TestSourcePixelValidAndSemantics(t *testing.T) {
	unified := BitPlane{0x1} // bit 0 set only
	perBand := BitPlane{0x2} // bit 1 set only

	if !SourcePixelValid(nil, nil, 0) {
		t.Error("both absent should be valid")
	}
	if !SourcePixelValid(unified, nil, 0) {
		t.Error("unified valid, band absent -> valid")
	}
	if SourcePixelValid(unified, nil, 1) {
		t.Error("unified invalid at bit 1 -> invalid regardless of absent band")
	}
	if SourcePixelValid(unified, perBand, 0) {
		t.Error("unified valid at 0 but band invalid at 0 -> invalid (AND)")
	}
	if !SourcePixelValid(nil, perBand, 1) {
		t.Error("unified absent, band valid at 1 -> valid")
	}
}

// TestBitPlaneConcurrentSetValidMergesWithinOneWord drives 32 goroutines,
// each setting a distinct bit of the same word, and checks every bit
// survives. SetValid's read-modify-write must go through a compare-and-swap
// loop rather than a plain "|=" or concurrent setters can clobber each
// other's bits.
func TestBitPlaneConcurrentSetValidMergesWithinOneWord(t *testing.T) {
	p := make(BitPlane, 1)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(bit int) {
			defer wg.Done()
			p.SetValid(bit)
		}(i)
	}
	wg.Wait()
	for i := 0; i < 32; i++ {
		if !p.IsValid(i) {
			t.Errorf("bit %d should be set after concurrent SetValid calls, got unset", i)
		}
	}
}

func TestDensityAbsentIsOne(t *testing.T) {
	var d DensityPlane
	if d.Density(0) != 1.0 {
		t.Errorf("absent density plane should report 1.0, got %v", d.Density(0))
	}
}

func TestDensityPresent(t *testing.T) {
	d := DensityPlane{0.25, 0.75}
	if d.Density(0) != 0.25 || d.Density(1) != 0.75 {
		t.Errorf("unexpected density values: %v", d)
	}
}
