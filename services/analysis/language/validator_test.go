// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package language

import (
	"errors"
	"testing"
)

const pythonSample = `def greet(name):
    if name:
        print(f"hello {name}")
    return None
`

const javascriptSample = `const greet = (name) => {
    if (name === undefined) {
        return;
    }
    console.log("hello " + name);
};
`

const javaSample = `import java.util.List;

public class Greeter {
    public static void main(String[] args) {
        System.out.println("hello");
    }
}
`

const cSample = `#include <stdio.h>

int main(void) {
    printf("hello\n");
    return 0;
}
`

const cppSample = `#include <iostream>

int main() {
    std::cout << "hello" << std::endl;
    return 0;
}
`

const typescriptSample = `interface Greeting {
    message: string;
}

const greet = (name: string): Greeting => {
    return { message: "hello " + name };
};
`

func TestValidate_MatchingSamples(t *testing.T) {
	tests := []struct {
		language string
		code     string
	}{
		{"python", pythonSample},
		{"javascript", javascriptSample},
		{"java", javaSample},
		{"c", cSample},
		{"cpp", cppSample},
		{"typescript", typescriptSample},
	}
	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			if err := Validate(tt.code, tt.language); err != nil {
				t.Errorf("expected valid, got %v", err)
			}
		})
	}
}

func TestValidate_Mismatches(t *testing.T) {
	tests := []struct {
		name     string
		language string
		code     string
	}{
		{"javascript as python", "python", javascriptSample},
		{"python as javascript", "javascript", pythonSample},
		{"java as python", "python", javaSample},
		{"cpp as c", "c", cppSample},
		{"python as cpp", "cpp", pythonSample},
		{"java as typescript", "typescript", javaSample},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.code, tt.language)
			if !errors.Is(err, ErrMismatch) {
				t.Errorf("expected ErrMismatch, got %v", err)
			}
		})
	}
}

func TestValidate_SupersetPairs(t *testing.T) {
	// Plain C is valid C++; plain JavaScript is valid TypeScript.
	if err := Validate(cSample, "cpp"); err != nil {
		t.Errorf("C sample declared as cpp should pass, got %v", err)
	}
	if err := Validate(javascriptSample, "typescript"); err != nil {
		t.Errorf("JS sample declared as typescript should pass, got %v", err)
	}
}

func TestValidate_NotCode(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t"},
		{"prose without structure", "hello world this is some text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.code, "python")
			if !errors.Is(err, ErrNotCode) {
				t.Errorf("expected ErrNotCode, got %v", err)
			}
		})
	}
}

func TestValidate_ShortSnippetBenefitOfDoubt(t *testing.T) {
	// Too short to demand a signature, carries no foreign markers.
	if err := Validate("x = 1 + 2", "python"); err != nil {
		t.Errorf("short neutral snippet should pass, got %v", err)
	}
}

func TestValidate_ShortArrowFunctionAsPython(t *testing.T) {
	// A bare arrow-function declaration is unmistakably JavaScript and
	// must not slip through the short-snippet leniency.
	err := Validate("const x = () => {...}", "python")
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
	// Declared honestly it passes.
	if err := Validate("const x = () => {...}", "javascript"); err != nil {
		t.Errorf("expected valid javascript, got %v", err)
	}
}

func TestValidate_LongCodeWithoutSignatures(t *testing.T) {
	// Long enough to demand a positive signature, shows none for java.
	code := "x = 1\ny = 2\nz = x + y\nw = z * 2\nv = w - 1\nu = v / 3\n"
	err := Validate(code, "java")
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestValidate_Unsupported(t *testing.T) {
	err := Validate("puts 'hello'", "ruby")
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		want string
		code string
	}{
		{"python", pythonSample},
		{"javascript", javascriptSample},
		{"java", javaSample},
		{"c", cSample},
		{"cpp", cppSample},
		{"typescript", typescriptSample},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, ok := Detect(tt.code)
			if !ok || got != tt.want {
				t.Errorf("expected %s, got %s (ok=%v)", tt.want, got, ok)
			}
		})
	}
}

func TestDetect_NoSignal(t *testing.T) {
	if got, ok := Detect("zzz qqq"); ok {
		t.Errorf("expected no detection, got %s", got)
	}
}

func TestSupported(t *testing.T) {
	langs := Supported()
	if len(langs) != 6 {
		t.Fatalf("expected 6 languages, got %d: %v", len(langs), langs)
	}
	for _, l := range []string{"c", "cpp", "java", "javascript", "python", "typescript"} {
		if !IsSupported(l) {
			t.Errorf("expected %s supported", l)
		}
	}
}
