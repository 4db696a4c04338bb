package kube

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/version"
	discoveryfake "k8s.io/client-go/discovery/fake"
	"k8s.io/client-go/kubernetes/fake"
)

func node(name string, ready corev1.ConditionStatus) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: ready},
			},
		},
	}
}

func TestProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("counts ready nodes and reports the server version", func(t *testing.T) {
		cs := fake.NewSimpleClientset(
			node("n1", corev1.ConditionTrue),
			node("n2", corev1.ConditionTrue),
			node("n3", corev1.ConditionFalse),
		)
		cs.Discovery().(*discoveryfake.FakeDiscovery).FakedServerVersion = &version.Info{GitVersion: "v1.29.2"}

		r := probe(ctx, cs)
		if !r.Reachable {
			t.Fatalf("expected reachable, got %+v", r)
		}
		if r.ServerVersion != "v1.29.2" {
			t.Errorf("expected v1.29.2, got %s", r.ServerVersion)
		}
		if r.TotalNodes != 3 || r.ReadyNodes != 2 {
			t.Errorf("expected 2 of 3 ready, got %d of %d", r.ReadyNodes, r.TotalNodes)
		}
	})

	t.Run("empty cluster", func(t *testing.T) {
		r := probe(ctx, fake.NewSimpleClientset())
		if !r.Reachable || r.TotalNodes != 0 {
			t.Errorf("unexpected result %+v", r)
		}
	})
}

func TestCountReadyNodes(t *testing.T) {
	nodes := []corev1.Node{
		*node("a", corev1.ConditionTrue),
		*node("b", corev1.ConditionUnknown),
		{ObjectMeta: metav1.ObjectMeta{Name: "no-conditions"}},
	}
	if got := countReadyNodes(nodes); got != 1 {
		t.Errorf("expected 1 ready node, got %d", got)
	}
}

func TestProberRejectsMalformedKubeconfig(t *testing.T) {
	p := NewProber()
	if _, err := p.Probe(context.Background(), []byte("not: a kubeconfig")); err == nil {
		t.Fatal("expected error for malformed kubeconfig")
	}
	if _, err := p.Probe(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty kubeconfig")
	}
}
