package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdcmigrate.dev/pkg/mdcmigrate/internal/domain/rules"
	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

const radioComment = "/* TODO(mdc-migration): The following rule targets internal classes of radio that may no longer apply for the MDC version. */"

func defaultTable(t *testing.T) m.RuleTable {
	t.Helper()

	table, err := rules.Default()
	require.NoError(t, err)

	return table
}

func TestMigrate_RadioMixins(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "replaces the old theme with the new one",
			in: `
        @use '@angular/material' as mat;
        $theme: ();
        @include mat.legacy-radio-theme($theme);
      `,
			want: `
        @use '@angular/material' as mat;
        $theme: ();
        @include mat.radio-theme($theme);
      `,
		},
		{
			name: "uses the correct namespace",
			in: `
        @use '@angular/material' as arbitrary;
        $theme: ();
        @include arbitrary.legacy-radio-theme($theme);
      `,
			want: `
        @use '@angular/material' as arbitrary;
        $theme: ();
        @include arbitrary.radio-theme($theme);
      `,
		},
		{
			name: "updates multiple themes",
			in: `
        @use '@angular/material' as mat;
        $light-theme: ();
        $dark-theme: ();
        @include mat.legacy-radio-theme($light-theme);
        @include mat.legacy-radio-theme($dark-theme);
      `,
			want: `
        @use '@angular/material' as mat;
        $light-theme: ();
        $dark-theme: ();
        @include mat.radio-theme($light-theme);
        @include mat.radio-theme($dark-theme);
      `,
		},
		{
			name: "preserves whitespace",
			in: `
        @use '@angular/material' as mat;
        $theme: ();


        @include mat.legacy-radio-theme($theme);


      `,
			want: `
        @use '@angular/material' as mat;
        $theme: ();


        @include mat.radio-theme($theme);


      `,
		},
		{
			name: "updates color mixin",
			in: `
        @use '@angular/material' as mat;
        $theme: ();
        @include mat.legacy-radio-color($theme);
      `,
			want: `
        @use '@angular/material' as mat;
        $theme: ();
        @include mat.radio-color($theme);
      `,
		},
		{
			name: "updates typography mixin",
			in: `
        @use '@angular/material' as mat;
        $theme: ();
        @include mat.legacy-radio-typography($theme);
      `,
			want: `
        @use '@angular/material' as mat;
        $theme: ();
        @include mat.radio-typography($theme);
      `,
		},
	}

	table := defaultTable(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Migrate([]string{"radio"}, tt.in, table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrate_RadioSelectors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "updates the legacy mat-radio-group class",
			in: `
        .mat-radio-group {
          display: block;
        }
      `,
			want: `
        .mat-mdc-radio-group {
          display: block;
        }
      `,
		},
		{
			name: "updates multiple legacy classes",
			in: `
        .mat-radio-button {
          display: block;
        }
        .mat-radio-group {
          padding: 16px;
        }
      `,
			want: `
        .mat-mdc-radio-button {
          display: block;
        }
        .mat-mdc-radio-group {
          padding: 16px;
        }
      `,
		},
		{
			name: "updates a legacy class in a selector list",
			in: `
        .some-class.mat-radio-button, .another-class {
          display: block;
        }
      `,
			want: `
        .some-class.mat-mdc-radio-button, .another-class {
          display: block;
        }
      `,
		},
		{
			name: "preserves the whitespace of multiple selectors",
			in: `
        .some-class,
        .mat-radio-button,
        .another-class { padding: 16px; }
      `,
			want: `
        .some-class,
        .mat-mdc-radio-button,
        .another-class { padding: 16px; }
      `,
		},
		{
			name: "adds comment for internal selector",
			in: `
        .mat-radio-label-content {
          font-size: 24px;
        }
      `,
			want: `
        ` + radioComment + `
        .mat-radio-label-content {
          font-size: 24px;
        }
      `,
		},
		{
			name: "adds comment for multi-line internal selector",
			in: `
        .some-class
        .mat-radio-container {
          padding: 16px;
        }
      `,
			want: `
        ` + radioComment + `
        .some-class
        .mat-radio-container {
          padding: 16px;
        }
      `,
		},
		{
			name: "updates class and adds comment",
			in: `
        .mat-radio-group.some-class, .mat-radio-container {
          padding: 16px;
        }
      `,
			want: `
        ` + radioComment + `
        .mat-mdc-radio-group.some-class, .mat-radio-container {
          padding: 16px;
        }
      `,
		},
	}

	table := defaultTable(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Migrate([]string{"radio"}, tt.in, table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	in := `@use '@angular/material' as mat;
@include mat.legacy-radio-theme($theme);
@include mat.legacy-button-theme($theme);

.mat-radio-group.some-class, .mat-radio-container {
  padding: 16px;
}

.mat-raised-button .mat-button-wrapper {
  margin: 0;
}
`
	table := defaultTable(t)
	components := []string{"radio", "button"}

	once, err := Migrate(components, in, table)
	require.NoError(t, err)
	assert.NotEqual(t, in, once)

	twice, err := Migrate(components, once, table)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestMigrate_EmptyComponents(t *testing.T) {
	in := "@use '@angular/material' as mat;\n@include mat.legacy-radio-theme($t);\n.mat-radio-group {}\n"

	got, err := Migrate(nil, in, defaultTable(t))
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestMigrate_UnknownComponent(t *testing.T) {
	in := ".mat-radio-group {}\n"

	got, err := Migrate([]string{"radio", "autocomplete", "nope"}, in, defaultTable(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, m.ErrUnknownComponent))
	assert.Contains(t, err.Error(), `"autocomplete"`)
	assert.Contains(t, err.Error(), `"nope"`)
	assert.Equal(t, ".mat-mdc-radio-group {}\n", got)
}

func TestMigrate_OnlyUnknownComponents(t *testing.T) {
	in := ".mat-radio-group {}\n"

	got, err := Migrate([]string{"nope"}, in, defaultTable(t))

	require.ErrorIs(t, err, m.ErrUnknownComponent)
	assert.Equal(t, in, got)
}

func TestMigrate_MultipleComponents(t *testing.T) {
	in := `@use '@angular/material';
@include material.legacy-checkbox-theme($theme);
@include material.legacy-radio-color($theme);
.mat-checkbox .mat-radio-button {}
.mat-checkbox-frame {}
`
	want := `@use '@angular/material';
@include material.checkbox-theme($theme);
@include material.radio-color($theme);
.mat-mdc-checkbox .mat-mdc-radio-button {}
/* TODO(mdc-migration): The following rule targets internal classes of checkbox that may no longer apply for the MDC version. */
.mat-checkbox-frame {}
`

	got, err := Migrate([]string{"checkbox", "radio"}, in, defaultTable(t))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMigrate_ButtonSplit(t *testing.T) {
	in := "@use '@angular/material' as mat;\n\n.theme {\n  @include mat.legacy-button-color($theme);\n}\n"
	want := "@use '@angular/material' as mat;\n\n.theme {\n" +
		"  @include mat.button-color($theme);\n" +
		"  @include mat.fab-color($theme);\n" +
		"  @include mat.icon-button-color($theme);\n}\n"

	got, err := Migrate([]string{"button"}, in, defaultTable(t))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMigrateDocument_StatsAndWarnings(t *testing.T) {
	in := "@use '@angular/material' as mat;\n" +
		"@include mat.legacy-radio-theme($theme);\n" +
		".mat-radio-group .mat-radio-ripple {}\n" +
		"}\n" +
		".mat-radio-button {}\n"

	result, err := NewMigrator(defaultTable(t)).MigrateDocument([]string{"radio"}, in)
	require.NoError(t, err)

	assert.Equal(t, m.Stats{Mixins: 1, Classes: 1, Comments: 1}, result.Stats)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, m.WarningMalformedBlock, result.Warnings[0].Kind)
	assert.Equal(t, 4, result.Warnings[0].Line)
	assert.Contains(t, result.Text, "\n.mat-radio-button {}\n")
}

func TestMigrate_NamespaceNotImported(t *testing.T) {
	in := "@include mat.legacy-radio-theme($theme);\n.mat-radio-group {}\n"

	got, err := Migrate([]string{"radio"}, in, defaultTable(t))
	require.NoError(t, err)
	assert.Equal(t, "@include mat.legacy-radio-theme($theme);\n.mat-mdc-radio-group {}\n", got)
}
