package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/stratokube/strato/domain/model"
)

// Prober answers cluster reachability probes; it implements
// model.ReachabilityPort. A fresh client is built per probe so credentials
// from one kubeconfig never leak into the next call.
type Prober struct {
	// Options tunes the underlying client. Nil selects the defaults.
	Options *Options
}

// NewProber returns a prober with default client options.
func NewProber() *Prober { return &Prober{} }

// Probe builds a client from the kubeconfig and asks the API server for its
// version and node readiness. Transport failures are reported in the result;
// only a malformed kubeconfig is an error.
func (p *Prober) Probe(ctx context.Context, kubeconfig []byte) (*model.ClusterReachability, error) {
	c, err := NewClientFromKubeconfig(kubeconfig, p.Options)
	if err != nil {
		return nil, err
	}
	return probe(ctx, c.Clientset), nil
}

func probe(ctx context.Context, cs kubernetes.Interface) *model.ClusterReachability {
	info, err := cs.Discovery().ServerVersion()
	if err != nil {
		return &model.ClusterReachability{Reachable: false, Message: fmt.Sprintf("server version: %v", err)}
	}
	r := &model.ClusterReachability{Reachable: true, ServerVersion: info.GitVersion}

	nodes, err := cs.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		// The control plane answered; node listing can still be denied by
		// RBAC, which does not make the cluster unreachable.
		r.Message = fmt.Sprintf("list nodes: %v", err)
		return r
	}
	r.TotalNodes = len(nodes.Items)
	r.ReadyNodes = countReadyNodes(nodes.Items)
	return r
}

// countReadyNodes counts nodes whose Ready condition is true.
func countReadyNodes(nodes []corev1.Node) int {
	ready := 0
	for _, n := range nodes {
		for _, cond := range n.Status.Conditions {
			if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
				ready++
				break
			}
		}
	}
	return ready
}
