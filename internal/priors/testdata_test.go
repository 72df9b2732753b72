package priors

func uniformLeaf(lower, upper float64, widthKind string, width, gLower, gUpper float64) map[string]any {
	return map[string]any{
		"type":        "Uniform",
		"lower_limit": lower,
		"upper_limit": upper,
		"width_modifier": map[string]any{
			"type":  widthKind,
			"value": width,
		},
		"gaussian_limits": map[string]any{
			"lower": gLower,
			"upper": gUpper,
		},
	}
}

// sampleTree mirrors the shape of the bundled defaults.
func sampleTree() RawTree {
	return RawTree{
		"mass_profiles.point_masses": map[string]any{
			"PointMass": map[string]any{
				"centre_0":        uniformLeaf(0, 1, "Absolute", 0.2, 0, 1),
				"centre_1":        uniformLeaf(0, 1, "Absolute", 0.2, 0, 1),
				"einstein_radius": uniformLeaf(0, 1, "Relative", 0.2, 0, 1),
			},
		},
		"mass_profiles.dark_mass_profiles": map[string]any{
			"SphericalNFWMCRLudlow": map[string]any{
				"mass_at_200": uniformLeaf(0, 1, "Relative", 0.5, 0, 1),
			},
			"SphericalNFW": map[string]any{
				"centre_0":     uniformLeaf(-0.5, 0.5, "Absolute", 0.1, -1, 1),
				"scale_radius": uniformLeaf(0.1, 1, "Relative", 0.3, 0, 1),
			},
			"*": map[string]any{
				"centre_0": uniformLeaf(0, 1, "Absolute", 0.2, 0, 1),
				"centre_1": uniformLeaf(0, 1, "Absolute", 0.2, 0, 1),
			},
		},
		"light_profiles": map[string]any{
			"EllipticalLightProfile": map[string]any{
				"centre_0": uniformLeaf(0, 1, "Absolute", 0.2, 0, 1),
				"centre_1": uniformLeaf(0, 1, "Absolute", 0.2, 0, 1),
				"intensity": map[string]any{
					"type":            "LogUniform",
					"lower_limit":     1e-6,
					"upper_limit":     1,
					"width_modifier":  map[string]any{"type": "Relative", "value": 0.5},
					"gaussian_limits": map[string]any{"lower": 0.0, "upper": "inf"},
				},
				"elliptical_comps_0": map[string]any{
					"type":            "Gaussian",
					"mean":            0.0,
					"sigma":           0.3,
					"lower_limit":     -1.0,
					"upper_limit":     1.0,
					"width_modifier":  map[string]any{"type": "Absolute", "value": 0.2},
					"gaussian_limits": map[string]any{"lower": -1.0, "upper": 1.0},
				},
			},
		},
	}
}
