package vartype

import (
	"testing"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

func TestSlotSize(t *testing.T) {
	tests := []struct {
		name string
		v    VarType
		want int
	}{
		{"int is one slot", INT, 1},
		{"bool is one slot", BOOLEAN, 1},
		{"string is one slot", STRING, 1},
		{"long is two slots", LONG, 2},
		{"double is two slots", DOUBLE, 2},
		{"float maps to jvm double, two slots", FLOAT, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.SlotSize(); got != tt.want {
				t.Errorf("SlotSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromSurface(t *testing.T) {
	tests := []struct {
		name string
		typ  *ast.SurfaceType
		want VarType
	}{
		{"int", ast.IntType, INT},
		{"long", ast.LongType, LONG},
		{"float collapses to double category", ast.FloatType, DOUBLE},
		{"double", ast.DoubleType, DOUBLE},
		{"bool", ast.BoolType, BOOLEAN},
		{"string", ast.StringType, STRING},
		{"named class", ast.NamedType("java.util.ArrayList"), OBJECT},
		{"string array", ast.ArrayType(ast.StringType), STRING_ARRAY},
		{"int array", ast.ArrayType(ast.IntType), OBJECT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromSurface(tt.typ); got != tt.want {
				t.Errorf("FromSurface(%v) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestDescriptor(t *testing.T) {
	resolve := func(name string) string { return "app/" + name }

	tests := []struct {
		name string
		typ  *ast.SurfaceType
		want string
	}{
		{"int", ast.IntType, "I"},
		{"long", ast.LongType, "J"},
		{"bool", ast.BoolType, "Z"},
		{"string", ast.StringType, "Ljava/lang/String;"},
		{"named", ast.NamedType("Point"), "Lapp/Point;"},
		{"int array", ast.ArrayType(ast.IntType), "[I"},
		{"string array", ast.ArrayType(ast.StringType), "[Ljava/lang/String;"},
		{"optional unwraps", ast.OptionalType(ast.IntType), "I"},
		{"void", ast.VoidType, "V"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Descriptor(tt.typ, resolve); got != tt.want {
				t.Errorf("Descriptor(%v) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}
}

func TestMethodDescriptor(t *testing.T) {
	got := MethodDescriptor([]*ast.SurfaceType{ast.IntType, ast.StringType}, ast.BoolType, nil)
	want := "(ILjava/lang/String;)Z"
	if got != want {
		t.Errorf("MethodDescriptor() = %q, want %q", got, want)
	}
}

func TestDottedJavaType(t *testing.T) {
	resolve := func(name string) string { return "app/" + name }

	tests := []struct {
		name string
		typ  *ast.SurfaceType
		want string
	}{
		{"int", ast.IntType, "int"},
		{"long", ast.LongType, "long"},
		{"float collapses to double", ast.FloatType, "double"},
		{"bool", ast.BoolType, "boolean"},
		{"string", ast.StringType, "java.lang.String"},
		{"named", ast.NamedType("Point"), "app.Point"},
		{"int array", ast.ArrayType(ast.IntType), "int[]"},
		{"void", ast.VoidType, "void"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DottedJavaType(tt.typ, resolve); got != tt.want {
				t.Errorf("DottedJavaType(%v) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}
}

func TestFromJavaType(t *testing.T) {
	tests := []struct {
		in   string
		want VarType
	}{
		{"int", INT},
		{"long", LONG},
		{"double", DOUBLE},
		{"boolean", BOOLEAN},
		{"java.lang.String", STRING},
		{"java.lang.Object", OBJECT},
		{"java.lang.Integer", OBJECT},
	}
	for _, tt := range tests {
		if got := FromJavaType(tt.in); got != tt.want {
			t.Errorf("FromJavaType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBoxing(t *testing.T) {
	if INT.BoxedClass() != "java/lang/Integer" {
		t.Errorf("INT.BoxedClass() = %q", INT.BoxedClass())
	}
	if INT.ValueOfDescriptor() != "(I)Ljava/lang/Integer;" {
		t.Errorf("INT.ValueOfDescriptor() = %q", INT.ValueOfDescriptor())
	}
	if LONG.UnboxMethod() != "longValue" || LONG.UnboxDescriptor() != "()J" {
		t.Errorf("LONG unbox = %q %q", LONG.UnboxMethod(), LONG.UnboxDescriptor())
	}
}
