package discovery

import "testing"

func TestParseSpecifier(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Specifier
	}{
		{"empty selects everything", "", Specifier{}},
		{"all selects everything", "all", Specifier{}},
		{"bare component is a directory", "test_function", Specifier{Dir: "test_function"}},
		{"suffixed component is a file", "test_function.go", Specifier{File: "test_function"}},
		{"dotted component is file plus method", "test_function.test_function_1",
			Specifier{File: "test_function", Method: "test_function_1"}},
		{"dotted method keeps later dots", "test_class.TestClass.test_method_1",
			Specifier{File: "test_class", Method: "TestClass.test_method_1"}},
		{"dir and file", "devices/test_led", Specifier{Dir: "devices", File: "test_led"}},
		{"nested dir and suffixed file", "devices/nrf/test_led.go",
			Specifier{Dir: "devices/nrf", File: "test_led"}},
		{"trailing wildcard alone", "*_1", Specifier{Wildcard: "*_1"}},
		{"dir with trailing wildcard", "devices/test_c*",
			Specifier{Dir: "devices", Wildcard: "test_c*"}},
		{"file with trailing wildcard", "devices/test_led.go/*",
			Specifier{Dir: "devices", File: "test_led", Wildcard: "*"}},
		{"backslash separators", `devices\test_led.go`,
			Specifier{Dir: "devices", File: "test_led"}},
		{"absolute dir keeps its prefix", "/opt/fixtures/test_led.go",
			Specifier{Dir: "/opt/fixtures", File: "test_led"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSpecifier(tc.raw)
			if got != tc.want {
				t.Errorf("ParseSpecifier(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}
